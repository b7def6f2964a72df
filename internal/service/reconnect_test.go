package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"stocktracker/internal/session"
)

func TestReconnectProbeConnects(t *testing.T) {
	gw := &fakeGateway{}
	sess := testSession(gw)
	svc := &ReconnectService{Session: sess, Logger: zap.NewNop()}

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
	if sess.State() != session.Connected {
		t.Fatalf("state=%s want connected", sess.State())
	}
}

func TestReconnectProbeSurvivesDownGateway(t *testing.T) {
	gw := &fakeGateway{openErr: errors.New("refused")}
	svc := &ReconnectService{Session: testSession(gw), Logger: zap.NewNop()}

	// The probe records the failure; it never fails the job.
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
}
