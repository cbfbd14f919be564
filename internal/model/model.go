// Package model holds the domain types shared by the repository, service
// and handler layers, together with the request payloads the API binds.
package model

import "github.com/go-playground/validator/v10"

// validate is shared by every request type; validator caches struct
// metadata and is safe for concurrent use.
var validate = validator.New()
