// Package config provides configuration parsing for enhance projects.
//
// The configuration is stored in enhance.yaml at the project root.
// This package handles loading, saving, and validating configuration,
// and loading the initial store from a state file.
//
// # Configuration File Structure
//
//	elements: elements
//	pages: pages
//	state: state.yaml
//	output:
//	  bodyContent: false
//	  separateContent: false
//	  enhancedAttr: true
//	server:
//	  host: localhost
//	  port: 3000
//	  metrics: true
//	  dev: false
//	  compression:
//	    enabled: true
//	    level: default
//	    minSize: 1024
//
// Element templates may be read from S3 instead of the elements directory:
//
//	elementsS3:
//	  bucket: my-bucket
//	  prefix: elements/
//	  region: eu-west-1
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Address())
package config
