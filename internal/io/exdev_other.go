//go:build !unix

package ioutils

func isEXDEV(error) bool { return false }
