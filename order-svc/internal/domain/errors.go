package domain

import "errors"

// ErrTableTaken is returned when the AVAILABLE -> OCCUPIED transition fails
// because another order seated the table first.
var ErrTableTaken = errors.New("table was occupied concurrently")
