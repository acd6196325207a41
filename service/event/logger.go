package event

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/yiplee/structs"
)

type logNotifier struct{}

// Logger sink writing every event to the context logger
func Logger() core.INotifier {
	return logNotifier{}
}

func (logNotifier) Notify(ctx context.Context, event *core.Event) error {
	fields := logrus.Fields(structs.Map(event))
	logger.FromContext(ctx).WithFields(fields).Infoln("event", event.Type)
	return nil
}

type multiNotifier []core.INotifier

// Multi fan out to every sink, stops at the first failure
func Multi(sinks ...core.INotifier) core.INotifier {
	return multiNotifier(sinks)
}

func (m multiNotifier) Notify(ctx context.Context, event *core.Event) error {
	for _, sink := range m {
		if err := sink.Notify(ctx, event); err != nil {
			return err
		}
	}

	return nil
}
