//go:build !linux

package spidev

const supported = false
