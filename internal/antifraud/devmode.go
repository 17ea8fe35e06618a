package antifraud

import (
	"absensi-guard/internal/models"
)

// developerModeThreshold is the number of environment indicators that must
// be present before the device is treated as running in developer mode.
const developerModeThreshold = 2

// DetectDeveloperMode reports whether the client environment looks like a
// developer/debug setup or a known mock-GPS tool. Absent indicators count
// as false; this check never fails.
func DetectDeveloperMode(env models.EnvironmentSignals) bool {
	indicators := []bool{
		env.Localhost,
		env.FileProtocol,
		env.DevtoolsRuntime,
		env.DevtoolsHook,
		env.MockLocationUA,
		env.FakeGPSUA,
	}

	suspicious := 0
	for _, indicator := range indicators {
		if indicator {
			suspicious++
		}
	}
	return suspicious > developerModeThreshold
}
