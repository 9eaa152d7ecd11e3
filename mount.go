package webenv

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/iaalcantara17/webenv/dom"
	"github.com/iaalcantara17/webenv/internal/id"
)

// Mount is one piece of UI attached to the document body. Tests mount
// markup, poke at it through the runtime or the query helpers, and
// either unmount explicitly or let the per-test reset tear it down.
type Mount struct {
	ID        id.MountID
	Container *dom.Element

	env       *Env
	unmounted bool
}

// Mount parses an HTML fragment and attaches it to the document body
// inside a container div tagged with the mount's ID. Reset unmounts
// everything still attached, newest first.
func (e *Env) Mount(fragment string) (*Mount, error) {
	if e.closed {
		return nil, ErrClosed
	}

	parsed, err := dom.ParseFragment(fragment)
	if err != nil {
		return nil, fmt.Errorf("parse mount fragment: %w", err)
	}

	m := &Mount{
		ID:        id.NewMountID(),
		Container: e.doc.CreateElement("div"),
		env:       e,
	}
	m.Container.SetAttribute("data-mount", m.ID.String())
	for _, el := range parsed {
		m.Container.AddElement(el)
	}
	e.doc.Body.AddElement(m.Container)

	e.stateMu.Lock()
	e.mounts = append(e.mounts, m)
	e.stateMu.Unlock()

	e.log.Debug("mounted fragment",
		zap.String("env_id", e.id.String()),
		zap.String("mount_id", m.ID.String()))
	return m, nil
}

// MustMount is Mount for fragments known to be well-formed.
func (e *Env) MustMount(fragment string) *Mount {
	m, err := e.Mount(fragment)
	if err != nil {
		panic(err)
	}
	return m
}

// Unmount detaches the container, releases every listener under it and
// forgets its proxies. Safe to call more than once.
func (m *Mount) Unmount() {
	if m.unmounted {
		return
	}
	m.unmounted = true

	m.Container.DetachListeners()
	m.env.dropElement(m.Container)
	m.Container.Remove()

	m.env.stateMu.Lock()
	for i, cur := range m.env.mounts {
		if cur == m {
			m.env.mounts = append(m.env.mounts[:i], m.env.mounts[i+1:]...)
			break
		}
	}
	m.env.stateMu.Unlock()
}

// Query returns the backing elements matching a simplified selector
// within this mount.
func (m *Mount) Query(selector string) []*dom.Element {
	return m.Container.Query(selector)
}

// QueryOne returns the first match within this mount, or nil.
func (m *Mount) QueryOne(selector string) *dom.Element {
	found := m.Container.Query(selector)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// HTML returns the serialized markup currently inside the container.
func (m *Mount) HTML() string {
	return m.Container.InnerHTML()
}
