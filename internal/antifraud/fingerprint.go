package antifraud

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"absensi-guard/internal/models"
)

// EncodeFingerprint serializes device attributes into an opaque string
// suitable for a text column. Optional fields that are absent are omitted;
// encoding never fails.
func EncodeFingerprint(info models.DeviceInfo) string {
	data, _ := json.Marshal(info)
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeFingerprint restores device attributes from an encoded fingerprint
// for admin inspection. Legacy or malformed payloads return an error rather
// than panicking.
func DecodeFingerprint(encoded string) (models.DeviceInfo, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return models.DeviceInfo{}, fmt.Errorf("failed to decode fingerprint: %w", err)
	}

	var info models.DeviceInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return models.DeviceInfo{}, fmt.Errorf("failed to parse fingerprint: %w", err)
	}
	return info, nil
}
