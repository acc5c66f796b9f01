package ports

// The modal confirmation surface shown before a picked place is removed.
// Its open/closed state is owned by the presentation layer.
type ConfirmationSurface interface {
	Open()
	Close()
}
