package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/common/model"
)

// ErrInvalidName is returned by NewRecorder for names Prometheus rejects.
var ErrInvalidName = errors.New("invalid metric name")

func validate(namespace, name string) error {
	if namespace != "" && !model.MetricNameRE.MatchString(namespace) {
		return errors.Wrapf(ErrInvalidName, "namespace %q", namespace)
	}
	if name == "" {
		return errors.Wrap(ErrInvalidName, "empty pool name")
	}
	return nil
}
