// Command celinker resolves manufacturer part numbers against the record
// store bridge and manages the resulting attachment decisions.
package main
