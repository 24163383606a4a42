package convert

import "github.com/google/uuid"

func uuidFromBytes(kind SourceKind, b []byte) (uuid.UUID, error) {
	if len(b) != 16 {
		return uuid.UUID{}, castErrorf(kind, "UUID", "expected 16 raw bytes, got %d", len(b))
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.UUID{}, castErrorf(kind, "UUID", "malformed UUID bytes: %v", err)
	}
	return id, nil
}

func uuidFromText(kind SourceKind, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, castErrorf(kind, "UUID", "malformed UUID string %q: %v", s, err)
	}
	return id, nil
}
