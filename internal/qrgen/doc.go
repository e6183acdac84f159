// Package qrgen renders QR code images with configurable size, quiet zone,
// and colors.
package qrgen
