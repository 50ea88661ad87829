// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package claim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/ironcore-dev/ironcore/api/core/v1alpha1"
)

var (
	ErrMissingPlugins = errors.New("no plugin for resource")
	ErrReleaseClaim   = errors.New("failed to release claim")
	ErrAlreadyStarted = errors.New("claimer already started")
	ErrNotStarted     = errors.New("claimer not running")
)

type Claims map[v1alpha1.ResourceName]ResourceClaim

// Claimer serializes all operations on its plugins through a single
// goroutine, so plugins never see concurrent calls.
type Claimer interface {
	Claim(ctx context.Context, resources v1alpha1.ResourceList) (Claims, error)
	Release(ctx context.Context, claims Claims) error
	Retire(ctx context.Context, claims Claims) error
	Purchase(ctx context.Context, resources v1alpha1.ResourceList) error
	Start(ctx context.Context) error
	WaitUntilStarted(ctx context.Context) error
}

func NewResourceClaimer(log logr.Logger, plugins ...Plugin) (*claimer, error) {
	c := claimer{
		log:     log,
		plugins: map[string]Plugin{},

		requests: make(chan request),

		started:  make(chan struct{}),
		shutdown: make(chan struct{}),
	}

	for _, plugin := range plugins {
		if _, existing := c.plugins[plugin.Name()]; existing {
			return nil, fmt.Errorf("plugin %s already exists", plugin.Name())
		}
		c.plugins[plugin.Name()] = plugin
	}

	for _, plugin := range c.plugins {
		if err := plugin.Init(); err != nil {
			return nil, fmt.Errorf("failed to init plugin %s: %w", plugin.Name(), err)
		}
	}
	return &c, nil
}

type claimer struct {
	log     logr.Logger
	plugins map[string]Plugin

	requests chan request

	startOnce sync.Once
	started   chan struct{}
	shutdown  chan struct{}
}

type requestKind int

const (
	requestClaim requestKind = iota
	requestRelease
	requestRetire
	requestPurchase
)

type result struct {
	claims Claims
	err    error
}

type request struct {
	kind       requestKind
	resources  v1alpha1.ResourceList
	claims     Claims
	resultChan chan result
}

func (c *claimer) start(ctx context.Context) {
	close(c.started)

	for {
		select {
		case <-ctx.Done():
			close(c.shutdown)
			return
		case req := <-c.requests:
			req.resultChan <- c.handle(req)
		}
	}
}

func (c *claimer) handle(req request) result {
	switch req.kind {
	case requestClaim:
		claims, err := c.claim(req.resources)
		return result{claims: claims, err: err}
	case requestRelease:
		if err := c.release(req.claims); err != nil {
			return result{err: errors.Join(ErrReleaseClaim, err)}
		}
	case requestRetire:
		return result{err: c.retire(req.claims)}
	case requestPurchase:
		return result{err: c.purchase(req.resources)}
	}
	return result{}
}

func (c *claimer) Start(ctx context.Context) error {
	var called bool
	c.startOnce.Do(func() {
		called = true
		go c.start(ctx)
	})

	if !called {
		return ErrAlreadyStarted
	}

	<-ctx.Done()

	return nil
}

func (c *claimer) ensureRunning() error {
	select {
	case <-c.started:
	default:
		return ErrNotStarted
	}

	select {
	case <-c.shutdown:
		return ErrNotStarted
	default:
	}

	return nil
}

func (c *claimer) submit(ctx context.Context, req request) (result, error) {
	if err := c.ensureRunning(); err != nil {
		return result{}, err
	}

	req.resultChan = make(chan result, 1)
	select {
	case c.requests <- req:
	case <-c.shutdown:
		return result{}, ErrNotStarted
	case <-ctx.Done():
		return result{}, ctx.Err()
	}

	select {
	case <-ctx.Done():
		return result{}, ctx.Err()
	case res := <-req.resultChan:
		return res, nil
	}
}

func (c *claimer) claim(resources v1alpha1.ResourceList) (Claims, error) {
	var insufficientResourceErrors []error
	for resourceName, quantity := range resources {
		plugin := c.plugins[string(resourceName)]
		if !plugin.CanClaim(quantity) {
			insufficientResourceErrors = append(
				insufficientResourceErrors,
				fmt.Errorf("insufficient resource for %s", resourceName),
			)
		}
	}
	if len(insufficientResourceErrors) > 0 {
		return nil, errors.Join(ErrInsufficientResources, errors.Join(insufficientResourceErrors...))
	}

	claims := Claims{}
	for resourceName, quantity := range resources {
		plugin := c.plugins[string(resourceName)]

		claim, claimErr := plugin.Claim(quantity)
		if claimErr != nil {
			if err := c.release(claims); err != nil {
				c.log.Error(errors.Join(ErrReleaseClaim, err), "failed to roll back claims", "resource", resourceName)
			}
			return nil, claimErr
		}

		claims[resourceName] = claim
	}

	c.log.V(2).Info("Claimed resources", "resources", resources)
	return claims, nil
}

func (c *claimer) release(claims Claims) error {
	var releaseErrors []error
	for resourceName, claim := range claims {
		if err := c.plugins[string(resourceName)].Release(claim); err != nil {
			releaseErrors = append(releaseErrors, fmt.Errorf("%s: %w", resourceName, err))
		}
	}
	return errors.Join(releaseErrors...)
}

func (c *claimer) retire(claims Claims) error {
	var retireErrors []error
	for resourceName, claim := range claims {
		stocker, ok := c.plugins[string(resourceName)].(Stocker)
		if !ok {
			retireErrors = append(retireErrors, fmt.Errorf("%s: %w", resourceName, ErrNotStocked))
			continue
		}
		if err := stocker.Retire(claim); err != nil {
			retireErrors = append(retireErrors, fmt.Errorf("%s: %w", resourceName, err))
		}
	}
	return errors.Join(retireErrors...)
}

func (c *claimer) purchase(resources v1alpha1.ResourceList) error {
	var purchaseErrors []error
	for resourceName, quantity := range resources {
		stocker, ok := c.plugins[string(resourceName)].(Stocker)
		if !ok {
			purchaseErrors = append(purchaseErrors, fmt.Errorf("%s: %w", resourceName, ErrNotStocked))
			continue
		}
		if err := stocker.Purchase(quantity); err != nil {
			purchaseErrors = append(purchaseErrors, fmt.Errorf("%s: %w", resourceName, err))
		}
	}
	return errors.Join(purchaseErrors...)
}

func checkPlugins[V any](plugins map[string]Plugin, resources map[v1alpha1.ResourceName]V) error {
	var missingPluginErrors []error
	for resourceName := range resources {
		if _, ok := plugins[string(resourceName)]; !ok {
			missingPluginErrors = append(missingPluginErrors, fmt.Errorf("plugin for resource %s not found", resourceName))
		}
	}
	if len(missingPluginErrors) > 0 {
		return errors.Join(ErrMissingPlugins, errors.Join(missingPluginErrors...))
	}

	return nil
}

func (c *claimer) Claim(ctx context.Context, resources v1alpha1.ResourceList) (Claims, error) {
	if err := checkPlugins(c.plugins, resources); err != nil {
		return nil, err
	}

	res, err := c.submit(ctx, request{kind: requestClaim, resources: resources})
	if err != nil {
		return nil, err
	}
	return res.claims, res.err
}

func (c *claimer) Release(ctx context.Context, claims Claims) error {
	if err := checkPlugins(c.plugins, claims); err != nil {
		return err
	}

	res, err := c.submit(ctx, request{kind: requestRelease, claims: claims})
	if err != nil {
		return err
	}
	return res.err
}

// Retire removes the claimed units from their resources, for example after
// the hardware failed while in use.
func (c *claimer) Retire(ctx context.Context, claims Claims) error {
	if err := checkPlugins(c.plugins, claims); err != nil {
		return err
	}

	res, err := c.submit(ctx, request{kind: requestRetire, claims: claims})
	if err != nil {
		return err
	}
	return res.err
}

// Purchase adds new units to the resources.
func (c *claimer) Purchase(ctx context.Context, resources v1alpha1.ResourceList) error {
	if err := checkPlugins(c.plugins, resources); err != nil {
		return err
	}

	res, err := c.submit(ctx, request{kind: requestPurchase, resources: resources})
	if err != nil {
		return err
	}
	return res.err
}

func (c *claimer) WaitUntilStarted(ctx context.Context) error {
	select {
	case <-c.started:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
