package util

import (
	"sync"

	"github.com/denisbrodbeck/machineid"
)

var (
	machineID     string
	machineIDOnce sync.Once
)

// GetMachineID returns an app scoped hash of the host machine id, or an
// empty string when the host does not expose one.
// GetMachineID 返回按应用加盐的机器标识，获取失败时返回空字符串
func GetMachineID(appID string) string {
	machineIDOnce.Do(func() {
		if id, err := machineid.ProtectedID(appID); err == nil {
			machineID = id
		}
	})
	return machineID
}
