package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/dcshell/internal/logging"
)

// CloseAll destroys every open webxdc window.
func (uc *ManageWebxdcUseCase) CloseAll(ctx context.Context) {
	log := logging.FromContext(ctx)
	for _, label := range uc.instances.Labels() {
		if err := uc.destroy(label); err != nil {
			log.Warn().Err(err).Str("window_label", label).Msg("failed to close webxdc window")
		}
	}
}

// DeleteInstanceData closes the app of a message and removes its browsing
// data.
func (uc *ManageWebxdcUseCase) DeleteInstanceData(ctx context.Context, accountID, messageID uint32) error {
	var errs []error
	if inst, ok := uc.instances.Find(accountID, messageID); ok {
		if err := uc.destroy(inst.Label); err != nil {
			errs = append(errs, err)
		}
	}
	if err := uc.partitions.DeleteInstanceData(ctx, accountID, messageID); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete browsing data of %d/%d: %w", accountID, messageID, err))
	}
	return errors.Join(errs...)
}

// DeleteAccountData closes every app of an account and removes all of the
// account's browsing data. Apps of other accounts are untouched.
func (uc *ManageWebxdcUseCase) DeleteAccountData(ctx context.Context, accountID uint32) error {
	log := logging.FromContext(ctx).With().Uint32("account_id", accountID).Logger()

	var errs []error
	labels := uc.instances.LabelsForAccount(accountID)
	for _, label := range labels {
		if err := uc.destroy(label); err != nil {
			errs = append(errs, err)
		}
	}
	if err := uc.partitions.DeleteAccountData(ctx, accountID); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete browsing data of account %d: %w", accountID, err))
	}

	log.Info().Int("closed", len(labels)).Msg("webxdc account data deleted")
	return errors.Join(errs...)
}

// destroy tears a window down without the close delay. The registry entry
// is removed even when the window is already gone.
func (uc *ManageWebxdcUseCase) destroy(label string) error {
	defer uc.instances.Remove(label)

	w, ok := uc.host.Window(label)
	if !ok {
		return nil
	}
	return w.Destroy()
}
