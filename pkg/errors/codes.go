package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	CodeOK       ErrorCode = "OK"
	CodeUnknown  ErrorCode = "UNKNOWN"
	CodeInternal ErrorCode = "COMMON_001"
	// CodeInvalidParam covers malformed user input such as an unknown key path.
	CodeInvalidParam ErrorCode = "COMMON_002"
	CodeNotFound     ErrorCode = "COMMON_005"
)

// Bootstrap Error Codes
const (
	// CodeMissingInstallation: the default config or default UDF tree is absent
	// from the installation. A broken installation cannot repair itself.
	CodeMissingInstallation ErrorCode = "BOOT_001"
	// CodeMalformedConfig: the configuration file is not valid YAML.
	CodeMalformedConfig ErrorCode = "BOOT_002"
	// CodeInvalidMode: core.mode is neither "debug" nor "release".
	CodeInvalidMode     ErrorCode = "BOOT_003"
	CodeDirectoryCreate ErrorCode = "BOOT_004"
	CodeConfigWrite     ErrorCode = "BOOT_005"
	CodeAssetCopy       ErrorCode = "BOOT_006"
)

// Catalog Error Codes
const (
	CodeCatalogURIInvalid  ErrorCode = "CAT_001"
	CodeCatalogUnreachable ErrorCode = "CAT_002"
)

var codeDescriptions = map[ErrorCode]string{
	CodeOK:                  "success",
	CodeUnknown:             "unknown error",
	CodeInternal:            "internal error",
	CodeInvalidParam:        "invalid parameter",
	CodeNotFound:            "not found",
	CodeMissingInstallation: "installation assets missing",
	CodeMalformedConfig:     "configuration file is malformed",
	CodeInvalidMode:         "core.mode must be debug or release",
	CodeDirectoryCreate:     "directory could not be created",
	CodeConfigWrite:         "configuration file could not be written",
	CodeAssetCopy:           "asset copy failed",
	CodeCatalogURIInvalid:   "catalog database uri is invalid",
	CodeCatalogUnreachable:  "catalog database is unreachable",
}

// Describe returns the short description registered for code, falling back
// to the description of CodeUnknown.
func Describe(code ErrorCode) string {
	if d, ok := codeDescriptions[code]; ok {
		return d
	}
	return codeDescriptions[CodeUnknown]
}
