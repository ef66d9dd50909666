// Package config loads and validates receiver configuration from YAML.
//
// A minimal configuration names only the host:
//
//	host: 192.0.2.10
//
// Everything else has defaults matching common receivers:
//
//	host: 192.0.2.10
//	port: 8102                 # telnet port; most models use 23
//	name: Living Room AVR
//	connect_timeout: 5s        # empty means block until the OS gives up
//	enabled_sources_only: true
//	disabled_sources: [PHONO]
//	sources:                   # static map; suppresses slot probing
//	  TV: "05"
//	  CD: "01"
//	log_file: /var/log/avr/living-room.avrlog
//	poll_interval: 30s
package config
