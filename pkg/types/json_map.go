package types

// JSONMap is an opaque key/value mapping persisted as jsonb via the gorm
// json serializer.
type JSONMap map[string]any
