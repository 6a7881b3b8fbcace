// Package config maps environment variables onto typed, validated
// configuration structs.
//
// A configuration section is an ordinary Go struct. Its fields are matched
// against environment variables that share a prefix: with the prefix "REDIS_",
// REDIS_HOST fills the field keyed "host" and REDIS_MAX_CONNECTIONS fills
// "max_connections". Keys come from the `mapstructure` tag, or the snake_case
// form of the Go field name. Values are coerced to the field's type and the
// populated struct is then checked against its `validate` tags.
//
// A double separator marks nesting, so DB_POOL__MAX_SIZE fills the max_size
// field of the struct held in the pool field. A `mapstructure:",remain"` map
// field opts a section into keeping variables it does not declare; Extras
// returns exactly those. Printable returns a copy that is safe to log, with
// values of fields such as "password" or "api_key" masked.
//
// Settings layers a .env file under the process environment and Section
// caches a loaded section for the lifetime of the process.
package config
