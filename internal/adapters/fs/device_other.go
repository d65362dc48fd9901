//go:build !unix

package fs

import "go.trai.ch/stale/internal/core/domain"

func deviceID(string) (uint64, error) {
	return 0, domain.ErrCrossDeviceUnsupported
}
