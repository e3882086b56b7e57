package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/communet/communet-api/internal/model"
	"github.com/communet/communet-api/internal/queue"
	"github.com/communet/communet-api/internal/repository"
)

type fakeDirectory struct {
	mu       sync.Mutex
	accounts map[string]*model.AccountProfile
	lookErr  error
	setErr   error
}

func newFakeDirectory(profiles ...model.AccountProfile) *fakeDirectory {
	d := &fakeDirectory{accounts: map[string]*model.AccountProfile{}}
	for i := range profiles {
		p := profiles[i]
		d.accounts[p.ContactNumber] = &p
	}
	return d
}

func (d *fakeDirectory) GetByContactNumber(_ context.Context, contact string) (model.Account, error) {
	p, err := d.GetProfileByContactNumber(context.Background(), contact)
	return p.Account, err
}

func (d *fakeDirectory) GetProfileByContactNumber(_ context.Context, contact string) (model.AccountProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lookErr != nil {
		return model.AccountProfile{}, d.lookErr
	}
	p, ok := d.accounts[contact]
	if !ok {
		return model.AccountProfile{}, repository.ErrNotFound
	}
	return *p, nil
}

func (d *fakeDirectory) SetOTP(_ context.Context, contact, otp string, expiry time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.setErr != nil {
		return d.setErr
	}
	p, ok := d.accounts[contact]
	if !ok {
		return repository.ErrNotFound
	}
	p.OTP = &otp
	p.OTPExpiry = &expiry
	return nil
}

func (d *fakeDirectory) UserType(_ context.Context, id uint64) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lookErr != nil {
		return "", d.lookErr
	}
	for _, p := range d.accounts {
		if p.ID == id {
			return p.UserType, nil
		}
	}
	return "", repository.ErrNotFound
}

func (d *fakeDirectory) stored(contact string) (otp *string, expiry *time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.accounts[contact]
	return p.OTP, p.OTPExpiry
}

type fakeTokens struct {
	mu        sync.Mutex
	byUser    map[uint64]string
	upsertErr error
	getErr    error
}

func newFakeTokens() *fakeTokens { return &fakeTokens{byUser: map[uint64]string{}} }

func (f *fakeTokens) Upsert(_ context.Context, userID uint64, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.byUser[userID] = token
	return nil
}

func (f *fakeTokens) Get(_ context.Context, userID uint64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	tok, ok := f.byUser[userID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return tok, nil
}

type sentSMS struct{ phone, message string }

type fakeSMS struct {
	mu    sync.Mutex
	sent  []sentSMS
	err   error
	block bool
}

func (f *fakeSMS) Send(ctx context.Context, phone, message string) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{phone, message})
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []queue.AuthEvent
	err    error
}

func (f *fakeEvents) Publish(_ context.Context, ev queue.AuthEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

// otpSequence returns a NewOTP func yielding values in order.
func otpSequence(values ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		if i >= len(values) {
			return "", errors.New("otp sequence exhausted")
		}
		v := values[i]
		i++
		return v, nil
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// stalledPublisher blocks every Publish until release is closed.
type stalledPublisher struct {
	started chan struct{}
	release chan struct{}

	mu     sync.Mutex
	events []queue.AuthEvent
}

func newStalledPublisher() *stalledPublisher {
	return &stalledPublisher{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (p *stalledPublisher) Publish(ctx context.Context, ev queue.AuthEvent) error {
	p.started <- struct{}{}
	select {
	case <-p.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}
