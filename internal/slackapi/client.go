// Package slackapi adapts the Slack Web API to the engine's Source
// contract. All network access of a run goes through this package;
// every failure is surfaced as a REMOTE_API_ERROR.
package slackapi

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/roach88/pinlog/internal/pin"
)

// Client fetches pinned items and the member list for a workspace.
type Client struct {
	api *slack.Client
}

// New creates a Client from a bot token.
func New(token string) *Client {
	return &Client{api: slack.New(token)}
}

// ListPinnedItems returns the channel's pinned items in API order.
func (c *Client) ListPinnedItems(ctx context.Context, channel string) ([]pin.Item, error) {
	items, _, err := c.api.ListPinsContext(ctx, channel)
	if err != nil {
		return nil, pin.NewRemoteAPIError("pins.list", err)
	}
	out := make([]pin.Item, 0, len(items))
	for _, item := range items {
		out = append(out, convertItem(item))
	}
	return out, nil
}

// ListMembers returns a fresh member directory snapshot.
func (c *Client) ListMembers(ctx context.Context) (pin.MemberDirectory, error) {
	users, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return pin.MemberDirectory{}, pin.NewRemoteAPIError("users.list", err)
	}
	members := make([]pin.Member, 0, len(users))
	for _, u := range users {
		members = append(members, memberFromUser(u))
	}
	return pin.NewMemberDirectory(members), nil
}

// convertItem maps a raw API item onto the canonical item model. The
// type tag is carried through verbatim so the formatter can reject
// tags it does not know.
func convertItem(item slack.Item) pin.Item {
	converted := pin.Item{Type: pin.ItemType(item.Type)}
	if item.Message != nil {
		converted.Message = &pin.MessageItem{
			Timestamp: item.Message.Timestamp,
			User:      item.Message.User,
			Text:      item.Message.Text,
		}
	}
	if item.File != nil {
		converted.File = &pin.FileItem{
			ID:        int64(item.File.Timestamp),
			Created:   int64(item.File.Created),
			User:      item.File.User,
			Name:      item.File.Name,
			Permalink: item.File.Permalink,
		}
	}
	return converted
}

// memberFromUser picks the best display name the profile offers:
// display name, then real name, then login name, then the raw id.
func memberFromUser(u slack.User) pin.Member {
	name := u.Profile.DisplayName
	if name == "" {
		name = u.RealName
	}
	if name == "" {
		name = u.Name
	}
	if name == "" {
		name = u.ID
	}
	return pin.Member{ID: u.ID, Name: name}
}
