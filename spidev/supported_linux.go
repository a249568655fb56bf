package spidev

// spidev character devices only exist on Linux.
const supported = true
