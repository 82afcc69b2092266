// Package api is the HTTP surface of the catalog. Handlers translate
// requests into catalog service calls and shape the results into JSON
// records, adding hypermedia links and pagination metadata when the client
// asks for application/vnd.marvin.hateoas+json.
package api
