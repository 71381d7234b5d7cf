// Package config provides configuration structures and utilities for
// the torlook CLI: exit-list lookup defaults, control-port connection
// settings, and the optional profile file for named controllers.
package config
