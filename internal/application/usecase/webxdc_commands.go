package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
)

// The calls below are issued by a running app. The caller is identified by
// its window label only, so an app can reach nothing but its own message.

// RegisterChannel sets the sink status updates and realtime packets are
// pushed to.
func (uc *ManageWebxdcUseCase) RegisterChannel(_ context.Context, label string, sink port.UpdateSink) error {
	return uc.instances.SetSink(label, sink)
}

// SendUpdate stores and sends a status update of the calling app.
func (uc *ManageWebxdcUseCase) SendUpdate(ctx context.Context, label string, update json.RawMessage) error {
	inst, account, err := uc.caller(ctx, label)
	if err != nil {
		return err
	}
	return account.SendStatusUpdate(ctx, inst.MessageID, update)
}

// GetUpdates returns the JSON array of status updates after lastKnownSerial.
func (uc *ManageWebxdcUseCase) GetUpdates(ctx context.Context, label string, lastKnownSerial uint32) (string, error) {
	inst, account, err := uc.caller(ctx, label)
	if err != nil {
		return "", err
	}
	return account.StatusUpdates(ctx, inst.MessageID, lastKnownSerial)
}

func (uc *ManageWebxdcUseCase) JoinRealtime(ctx context.Context, label string) error {
	inst, account, err := uc.caller(ctx, label)
	if err != nil {
		return err
	}
	return account.JoinRealtime(ctx, inst.MessageID)
}

func (uc *ManageWebxdcUseCase) LeaveRealtime(ctx context.Context, label string) error {
	inst, account, err := uc.caller(ctx, label)
	if err != nil {
		return err
	}
	return account.LeaveRealtime(ctx, inst.MessageID)
}

func (uc *ManageWebxdcUseCase) SendRealtimeData(ctx context.Context, label string, data []byte) error {
	inst, account, err := uc.caller(ctx, label)
	if err != nil {
		return err
	}
	return account.SendRealtimeData(ctx, inst.MessageID, data)
}

func (uc *ManageWebxdcUseCase) caller(ctx context.Context, label string) (entity.Instance, port.Account, error) {
	inst, ok := uc.instances.Get(label)
	if !ok {
		return entity.Instance{}, nil, fmt.Errorf("%w: %s", entity.ErrInstanceNotFound, label)
	}
	account, err := uc.engine.Account(ctx, inst.AccountID)
	if err != nil {
		return entity.Instance{}, nil, err
	}
	return inst, account, nil
}
