package azure

import (
	"errors"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// ErrorFields extracts the HTTP status and Azure error code from err as
// slog key/value pairs. It returns nil when err carries neither.
func ErrorFields(err error) []any {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return []any{
			"status_code", respErr.StatusCode,
			"error_code", respErr.ErrorCode,
		}
	}

	var authErr *azidentity.AuthenticationFailedError
	if errors.As(err, &authErr) {
		fields := []any{"error_kind", "authentication"}
		if authErr.RawResponse != nil {
			fields = append(fields, "status_code", authErr.RawResponse.StatusCode)
		}
		return fields
	}

	return nil
}
