// package models defines the data model for the todo sync client
package models
