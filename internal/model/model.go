// Package model provides data-structs and errors shared across the app
package model

import (
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

type (
	Status      string
	AspectRatio string
	ImageKind   string
)

const (
	StatusIdle       Status = "idle"
	StatusUploading  Status = "uploading" // reserved, no transition enters it
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

const (
	RatioSquare     AspectRatio = "1:1"
	RatioPortrait   AspectRatio = "3:4"
	RatioLandscape  AspectRatio = "4:3"
	RatioStory      AspectRatio = "9:16"
	RatioWidescreen AspectRatio = "16:9"

	DefaultAspectRatio = RatioSquare
)

// AspectRatios lists the presets in the order the UI shows them
var AspectRatios = []AspectRatioPreset{
	{Ratio: RatioSquare, Label: "Square"},
	{Ratio: RatioPortrait, Label: "Portrait"},
	{Ratio: RatioLandscape, Label: "Landscape"},
	{Ratio: RatioStory, Label: "Story"},
	{Ratio: RatioWidescreen, Label: "Widescreen"},
}

var AspectRatioMap = map[AspectRatio]bool{
	RatioSquare:     true,
	RatioPortrait:   true,
	RatioLandscape:  true,
	RatioStory:      true,
	RatioWidescreen: true,
}

type AspectRatioPreset struct {
	Ratio AspectRatio `json:"ratio"`
	Label string      `json:"label"`
}

const (
	KindOriginal ImageKind = "original"
	KindResult   ImageKind = "result"
)

// MaxUploadSize is the intake ceiling: 10 MiB
const MaxUploadSize int64 = 10 << 20

// MaxNoteLength bounds the free-text note, counted in runes
const MaxNoteLength = 1000

//---------------------

type RestorationConfig struct {
	AspectRatio       AspectRatio `json:"aspect_ratio"`
	PromptEnhancement string      `json:"prompt_enhancement"`
}

func DefaultConfig() RestorationConfig {
	return RestorationConfig{AspectRatio: DefaultAspectRatio}
}

// SessionView is what clients see of a session; image bytes are served separately
type SessionView struct {
	ID           uuid.UUID         `json:"id"`
	Status       Status            `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Config       RestorationConfig `json:"config"`
	HasSource    bool              `json:"has_source"`
	HasResult    bool              `json:"has_result"`
	SourceType   string            `json:"source_type,omitempty"`
	ResultType   string            `json:"result_type,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// UploadData is a file as it arrives from the transport layer
type UploadData struct {
	File        io.Reader
	ContentType string
	Size        int64
	Filename    string
}

// ------------------

var (
	ErrCommon500              error = errors.New("something went wrong. Try again later")                // 500
	ErrIncorrectID            error = errors.New("incorrect session UUID")                               // 400
	ErrSessionNotFound        error = errors.New("specified session doesn't exist or has expired")       // 404
	ErrUnsupportedType        error = errors.New("please select a valid image file (JPG, PNG, WEBP)")    // 400
	ErrFileTooLarge           error = errors.New("the image is too large. Maximum 10MB")                 // 413
	ErrEmptyFile              error = errors.New("the uploaded file is empty")                           // 400
	ErrInvalidImage           error = errors.New("the image data is corrupted or not base64-encoded")    // 400
	ErrUnsupportedAspectRatio error = errors.New("aspect ratio is not supported")                        // 400
	ErrNoteTooLong            error = errors.New("additional instructions are too long")                 // 400
	ErrNoSource               error = errors.New("upload an image before restoring")                     // 409
	ErrRequestInFlight        error = errors.New("a restoration is already in progress")                 // 409
	ErrResultPending          error = errors.New("clear or reset the current result before restoring")   // 409
	ErrStaleRequest           error = errors.New("session was reset while the restoration was running")  // 409
	ErrResultNotReady         error = errors.New("requested image is not available yet")                 // 404
	ErrNoResult               error = errors.New("could not generate the image. Please try again")       // 502
	ErrRestoreFailed          error = errors.New("restoration failed")                                   // 502
	ErrUnknownImageKind       error = errors.New("image kind must be either 'original' or 'result'")     // 400
	ErrMalformedConfig        error = errors.New("failed to parse restoration config")                   // 400
)

// GenericRestoreMessage is shown when the provider fails without saying why
const GenericRestoreMessage = "Error while processing the image."

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	WEBP = "image/webp"
)
