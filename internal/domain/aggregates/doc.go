// Package aggregates defines the coded error model and the write-boundary contract
// vocabulary shared by the domain, data and transport layers.
//
// Domain code returns *Error values; the data layer maps infrastructure failures onto
// the same codes; the HTTP layer translates codes into statuses.
package aggregates
