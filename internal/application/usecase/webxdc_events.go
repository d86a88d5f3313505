package usecase

import (
	"context"
	"errors"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/logging"
	"github.com/rs/zerolog"
)

// RunEventLoop handles engine events until ctx is done or the source closes.
func (uc *ManageWebxdcUseCase) RunEventLoop(ctx context.Context, source port.EventSource) {
	log := logging.FromContext(ctx).With().Str("component", "webxdc-events").Logger()
	ctx = logging.WithContext(ctx, log)

	events := source.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				log.Debug().Msg("engine event stream closed")
				return
			}
			uc.HandleEngineEvent(ctx, ev)
		}
	}
}

// HandleEngineEvent routes one engine event to the affected instance.
// Events for messages without an open window are ignored.
func (uc *ManageWebxdcUseCase) HandleEngineEvent(ctx context.Context, ev port.EngineEvent) {
	log := logging.FromContext(ctx).With().
		Str("event", ev.Kind.String()).
		Uint32("account_id", ev.AccountID).
		Uint32("message_id", ev.MessageID).
		Logger()

	switch ev.Kind {
	case port.EventWebxdcStatusUpdate:
		uc.push(ev, entity.WebxdcUpdate{Event: entity.WebxdcUpdateStatus}, log)

	case port.EventWebxdcRealtimeData:
		uc.push(ev, entity.WebxdcUpdate{Event: entity.WebxdcUpdateRealtimePacket, Data: ev.Data}, log)

	case port.EventMessageChanged:
		inst, ok := uc.instances.Find(ev.AccountID, ev.MessageID)
		if !ok {
			return
		}
		if err := uc.refreshTitle(ctx, inst); err != nil {
			log.Warn().Err(err).Msg("failed to refresh webxdc window title")
		}

	case port.EventMessageDeleted:
		if err := uc.DeleteInstanceData(ctx, ev.AccountID, ev.MessageID); err != nil {
			log.Warn().Err(err).Msg("failed to clean up deleted webxdc message")
		}
	}
}

func (uc *ManageWebxdcUseCase) push(ev port.EngineEvent, update entity.WebxdcUpdate, log zerolog.Logger) {
	sink, err := uc.instances.SinkFor(ev.AccountID, ev.MessageID)
	switch {
	case errors.Is(err, entity.ErrInstanceNotFound):
		return
	case errors.Is(err, entity.ErrChannelNotInitialized):
		log.Debug().Msg("webxdc app has no update channel yet")
		return
	case err != nil:
		log.Warn().Err(err).Msg("failed to resolve update channel")
		return
	}
	if err := sink.Send(update); err != nil {
		log.Warn().Err(err).Msg("failed to push update to webxdc app")
	}
}
