package repository_test

import (
	"io"

	"github.com/okian/careertrack/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}
