// Package config loads typed configuration structs from environment
// variables, with optional .env file support for development.
//
// Each configuration type is parsed once per process and cached; later
// loads of the same type return the cached value, keeping component
// construction cheap and consistent.
//
// # Usage
//
//	type ServerConfig struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
package config
