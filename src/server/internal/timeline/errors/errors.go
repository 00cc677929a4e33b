package timelineerrors

import (
	"github.com/veedubyou/stem-separator/src/server/internal/errors/api"
)

const (
	TimelineNotFoundCode      = api.ErrorCode("timeline_not_found")
	BadTimelineDataCode       = api.ErrorCode("bad_timeline_data")
	TimelineSizeExceededCode  = api.ErrorCode("timeline_size_exceeded")
	NoActiveSoundClipCode     = api.ErrorCode("no_active_sound_clip")
	InvalidStemCountCode      = api.ErrorCode("invalid_stem_count")
	BadSeparationRequestCode  = api.ErrorCode("bad_separation_request")
	SeparationUnavailableCode = api.ErrorCode("separation_unavailable")
)
