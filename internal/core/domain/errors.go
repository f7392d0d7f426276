package domain

import (
	"errors"
	"fmt"
)

// User-facing messages shown by the map page.
const (
	MsgDirectoryUnavailable = "Lỗi khi tải dữ liệu vị trí."
	MsgPOIQueryFailed       = "Lỗi khi tải dữ liệu khách sạn."
	MsgCityNotResolved      = "Không xác định được tỉnh/thành phố."
	msgNoResultsFormat      = "Không tìm thấy khách sạn nào ở %s."
)

// NoResultsMessage is the informational message for an empty search.
func NoResultsMessage(city string) string {
	return fmt.Sprintf(msgNoResultsFormat, city)
}

var (
	// ErrDirectoryUnavailable is returned when the directory has not been loaded.
	ErrDirectoryUnavailable = errors.New("location directory unavailable")
	// ErrCityNotResolved is returned when neither the city nor the fallback exists.
	ErrCityNotResolved = errors.New("city not resolved")
)

// DirectoryLoadError reports an unreachable or malformed directory source.
type DirectoryLoadError struct {
	Source string
	Err    error
}

func (e *DirectoryLoadError) Error() string {
	return fmt.Sprintf("load directory from %s: %v", e.Source, e.Err)
}

func (e *DirectoryLoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDirectoryUnavailable) hold for load failures.
func (e *DirectoryLoadError) Is(target error) bool {
	return target == ErrDirectoryUnavailable
}

// POIQueryError reports an unreachable POI service or a non-success response.
// StatusCode is zero for transport failures.
type POIQueryError struct {
	StatusCode int
	Err        error
}

func (e *POIQueryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("poi query: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("poi query: %v", e.Err)
}

func (e *POIQueryError) Unwrap() error { return e.Err }

// UserMessage maps a pipeline error to the message shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDirectoryUnavailable):
		return MsgDirectoryUnavailable
	case errors.Is(err, ErrCityNotResolved):
		return MsgCityNotResolved
	default:
		return MsgPOIQueryFailed
	}
}
