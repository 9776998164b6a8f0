// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !windows

package engine

const powerPointSupported = false

func connectPowerPoint() (automationHost, error) {
	return nil, errNoCOM
}
