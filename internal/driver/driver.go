// Package driver contains the built-in device drivers: a GPIO-triggered
// two-camera rig for real scanning hardware and a dummy driver for
// development without cameras. Drivers declare their configuration
// template through the plugin contract; merged values arrive under the
// "device" configuration section.
package driver
