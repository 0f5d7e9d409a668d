// Package config provides configuration parsing for bento tools.
//
// The configuration is stored in bento.json next to the scenarios it
// applies to. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "surface": {
//	    "width": 375,
//	    "margins": {"left": 16, "right": 16},
//	    "contentScaleFactor": 2,
//	    "separators": true
//	  },
//	  "inspect": {
//	    "host": "localhost",
//	    "port": 7070
//	  },
//	  "metrics": {
//	    "namespace": "bento",
//	    "enabled": true
//	  },
//	  "log": {
//	    "level": "info"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a := adapter.New(e, cfg.Geometry())
package config
