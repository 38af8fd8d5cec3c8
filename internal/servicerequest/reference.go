package servicerequest

import (
	"fmt"
	"math/rand"
	"regexp"
)

var referencePattern = regexp.MustCompile(`^REF-\d{4}-\d{6}$`)

// NewReference generates a human-readable reference of the form
// REF-####-######. The 10-digit random space makes collisions astronomically
// unlikely, but creation still retries on a duplicate.
func NewReference() string {
	return fmt.Sprintf("REF-%04d-%06d", rand.Intn(10000), rand.Intn(1000000))
}

func IsValidReference(reference string) bool {
	return referencePattern.MatchString(reference)
}
