package services

import (
	"context"
	"time"

	"github.com/Ayash13/Antivity/internal/vision"
)

// Checker is the vision backend judging image/target pairs.
type Checker interface {
	Check(ctx context.Context, image []byte, mimeType, target string) (bool, error)
}

// ValidationService implements the hosted photo-validation operation.
type ValidationService struct {
	checker Checker
	now     func() time.Time
}

func NewValidationService(checker Checker) *ValidationService {
	return &ValidationService{checker: checker, now: time.Now}
}

// ValidatePhoto judges whether the image contains the target and shapes the
// verdict the way clients expect it. A definitive "not found" is a normal
// result, not an error.
func (s *ValidationService) ValidatePhoto(ctx context.Context, image []byte, contentType, target string) (*vision.Result, error) {
	if err := vision.CheckImage(contentType, len(image)); err != nil {
		return nil, err
	}

	found, err := s.checker.Check(ctx, image, contentType, target)
	if err != nil {
		return nil, err
	}

	message := target + " not found in image"
	if found {
		message = "Found " + target + " in image"
	}

	return &vision.Result{
		Valid:      found,
		Confidence: "high",
		Target:     target,
		Timestamp:  s.now().UTC().Format(time.RFC3339),
		Message:    message,
	}, nil
}
