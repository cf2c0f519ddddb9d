package ports

import (
	"dataqc/domain/frame"
)

// DatasetReader loads a tabular dataset from a file into a frame.
type DatasetReader interface {
	ReadData() (*frame.Frame, error)
}
