// Package config provides type-safe configuration loading. Environment
// variables are parsed into tagged structs with caarlos0/env, with .env
// files loaded automatically on first use; each configuration type is loaded
// once and cached for subsequent calls.
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
// The route table and error-page mapping, which do not fit flat environment
// variables, come from a YAML file:
//
//	file, err := config.LoadFile("webserv.yaml")
//	routes, err := file.Routes()
package config
