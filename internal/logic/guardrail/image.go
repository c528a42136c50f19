package guardrail

import "strings"

// ValidateImage checks that repository and tag are present and that neither
// they nor the joined reference contain ForbiddenImageSubstring. The match is
// a plain case-sensitive substring test, so "my-latest-app" is rejected too.
func ValidateImage(repository, tag string) (ImageReference, error) {
	if repository == "" {
		return ImageReference{}, &MissingFieldError{Field: FieldImageRepository}
	}

	if tag == "" {
		return ImageReference{}, &MissingFieldError{Field: FieldImageTag}
	}

	ref := ImageReference{Repository: repository, Tag: tag}

	switch {
	case strings.Contains(repository, ForbiddenImageSubstring):
		return ImageReference{}, &ForbiddenTagError{Field: FieldImageRepository, Value: repository}
	case strings.Contains(tag, ForbiddenImageSubstring):
		return ImageReference{}, &ForbiddenTagError{Field: FieldImageTag, Value: tag}
	case strings.Contains(ref.FullReference(), ForbiddenImageSubstring):
		return ImageReference{}, &ForbiddenTagError{Field: FieldImage, Value: ref.FullReference()}
	}

	return ref, nil
}
