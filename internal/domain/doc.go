// Package domain contains the catalog entities, authors and the books they
// wrote, together with their validation rules. It does not depend on any
// storage or transport package.
package domain
