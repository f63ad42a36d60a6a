package session

import (
	"context"

	"github.com/foxseedlab/assist/internal/discord"
)

// Provisioner creates, renames and deletes the private threads sessions run
// in.
type Provisioner struct {
	discord discord.Client
	retry   retrier
}

func NewProvisioner(dc discord.Client, policy RetryPolicy) *Provisioner {
	return &Provisioner{discord: dc, retry: retrier{policy: policy}}
}

// Open creates a private thread next to hostChannelID. Threads cannot be
// nested, so when the host is itself a thread the new one goes under the
// host's parent.
func (p *Provisioner) Open(ctx context.Context, hostChannelID, name string) (discord.Channel, error) {
	host, err := p.discord.GetChannel(ctx, hostChannelID)
	if err != nil {
		return discord.Channel{}, platformError("get host channel", err)
	}
	parentID := host.ID
	if host.IsThread && host.ParentID != "" {
		parentID = host.ParentID
	}
	thread, err := p.discord.CreatePrivateThread(ctx, parentID, name)
	if err != nil {
		return discord.Channel{}, platformError("create private thread", err)
	}
	return thread, nil
}

func (p *Provisioner) Rename(ctx context.Context, threadID, name string) error {
	return p.retry.do(ctx, "rename thread", func(ctx context.Context) error {
		return p.discord.RenameThread(ctx, threadID, name)
	})
}

// Delete removes the thread; one that is already gone counts as deleted.
func (p *Provisioner) Delete(ctx context.Context, threadID string) error {
	return p.retry.do(ctx, "delete thread", func(ctx context.Context) error {
		return ignoreNotFound(p.discord.DeleteChannel(ctx, threadID))
	})
}
