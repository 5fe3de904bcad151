// Package config provides configuration management for the jitsi launcher.
//
// Configuration is read with viper from config.yaml in the working
// directory or in <XDG config home>/jitsi, overlaid with JITSI_* environment
// variables:
//
//	home_dir_location: /srv/jitsi      # JITSI_HOME_DIR_LOCATION
//	cache_dir_location: /var/cache     # JITSI_CACHE_DIR_LOCATION
//	log_dir_location: /var/log         # JITSI_LOG_DIR_LOCATION
//	home_dir_name: Jitsi               # JITSI_HOME_DIR_NAME
//	log:
//	  level: info                      # JITSI_LOG_LEVEL
//	  format: text                     # JITSI_LOG_FORMAT
//	healthcheck:
//	  port: 0                          # JITSI_HEALTHCHECK_PORT
//	instance:
//	  dial_timeout: 5s                 # JITSI_INSTANCE_DIAL_TIMEOUT
//
// The four home directory keys are pins: set values are used as-is by
// paths.Resolver, unset ones are derived. They have no defaults, so an
// empty value always means "not pinned".
package config
