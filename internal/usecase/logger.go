package usecase

import (
	"io"

	"github.com/sirupsen/logrus"
)

func orDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l != nil {
		return l
	}
	silent := logrus.New()
	silent.Out = io.Discard
	return silent
}
