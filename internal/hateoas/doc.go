// Package hateoas builds hypermedia links for API resources.
//
// Links are plain (href, rel, method) triples. URL construction goes through
// the URLBuilder interface so that handlers, tests and alternate routers can
// supply their own route table; Routes is the default implementation.
package hateoas
