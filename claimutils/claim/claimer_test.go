// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package claim_test

import (
	"context"
	"sync"

	"github.com/ironcore-dev/inventory-utils/claimutils/claim"
	"github.com/ironcore-dev/inventory-utils/claimutils/pool"
	"github.com/ironcore-dev/inventory-utils/inventoryutils/inventory"
	"github.com/ironcore-dev/ironcore/api/core/v1alpha1"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/utils/ptr"
	log "sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	resourceCPU v1alpha1.ResourceName = "example.org/cpu"
	resourceHDD v1alpha1.ResourceName = "example.org/hdd"
	resourceAny v1alpha1.ResourceName = "example.org/any"
)

// statelessPlugin accepts every claim and does not manage any stock.
type statelessPlugin struct{}

func (statelessPlugin) CanClaim(resource.Quantity) bool { return true }

func (statelessPlugin) Claim(resource.Quantity) (claim.ResourceClaim, error) { return struct{}{}, nil }

func (statelessPlugin) Release(claim.ResourceClaim) error { return nil }

func (statelessPlugin) Init() error { return nil }

func (statelessPlugin) Name() string { return string(resourceAny) }

func startClaimer(ctx SpecContext, plugins ...claim.Plugin) claim.Claimer {
	GinkgoHelper()

	resourceClaimer, err := claim.NewResourceClaimer(log.FromContext(ctx), plugins...)
	Expect(err).NotTo(HaveOccurred())

	innerCtx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		defer GinkgoRecover()
		errCh <- resourceClaimer.Start(innerCtx)
	}()

	DeferCleanup(func() {
		cancel()
		var startErr error
		Eventually(errCh).Should(Receive(&startErr))
		Expect(startErr).To(Succeed())
	})

	Expect(resourceClaimer.WaitUntilStarted(ctx)).To(Succeed())
	return resourceClaimer
}

var _ = Describe("Resource Claimer", func() {
	var (
		cpu *inventory.CPU
		hdd *inventory.HDD
	)

	BeforeEach(func() {
		var err error
		cpu, err = inventory.NewCPU(inventory.CPUSpec{
			ResourceSpec: inventory.ResourceSpec{
				Name:         "EPYC 9654",
				Manufacturer: "AMD",
				Total:        ptr.To(resource.MustParse("4")),
				Allocated:    ptr.To(resource.MustParse("0")),
			},
			Cores:      ptr.To(resource.MustParse("96")),
			Socket:     "SP5",
			PowerWatts: ptr.To(resource.MustParse("360")),
		})
		Expect(err).NotTo(HaveOccurred())

		hdd, err = inventory.NewHDD(inventory.HDDSpec{
			StorageSpec: inventory.StorageSpec{
				ResourceSpec: inventory.ResourceSpec{
					Name:         "Exos X20",
					Manufacturer: "Seagate",
					Total:        ptr.To(resource.MustParse("2")),
					Allocated:    ptr.To(resource.MustParse("0")),
				},
				CapacityGB: ptr.To(resource.MustParse("20000")),
			},
			Size: `3.5"`,
			RPM:  ptr.To(resource.MustParse("7200")),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	plugins := func(ctx SpecContext) []claim.Plugin {
		return []claim.Plugin{
			pool.NewPoolClaimPlugin(log.FromContext(ctx), string(resourceCPU), cpu, nil, nil),
			pool.NewPoolClaimPlugin(log.FromContext(ctx), string(resourceHDD), hdd, nil, nil),
		}
	}

	It("should reject duplicate plugins", func(ctx SpecContext) {
		_, err := claim.NewResourceClaimer(log.FromContext(ctx),
			pool.NewPoolClaimPlugin(log.FromContext(ctx), "dup", cpu, nil, nil),
			pool.NewPoolClaimPlugin(log.FromContext(ctx), "dup", hdd, nil, nil),
		)
		Expect(err).To(MatchError(ContainSubstring("plugin dup already exists")))
	})

	It("should fail init of a plugin without item", func(ctx SpecContext) {
		_, err := claim.NewResourceClaimer(log.FromContext(ctx),
			pool.NewPoolClaimPlugin(log.FromContext(ctx), "empty", nil, nil, nil),
		)
		Expect(err).To(HaveOccurred())
	})

	It("should refuse requests before it is started", func(ctx SpecContext) {
		resourceClaimer, err := claim.NewResourceClaimer(log.FromContext(ctx), plugins(ctx)...)
		Expect(err).NotTo(HaveOccurred())

		_, err = resourceClaimer.Claim(ctx, v1alpha1.ResourceList{resourceCPU: resource.MustParse("1")})
		Expect(err).To(MatchError(claim.ErrNotStarted))
	})

	It("should only start once", func(ctx SpecContext) {
		resourceClaimer, err := claim.NewResourceClaimer(log.FromContext(ctx), plugins(ctx)...)
		Expect(err).NotTo(HaveOccurred())

		innerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			defer GinkgoRecover()
			_ = resourceClaimer.Start(innerCtx)
		}()
		Expect(resourceClaimer.WaitUntilStarted(ctx)).To(Succeed())
		Expect(resourceClaimer.Start(innerCtx)).To(MatchError(claim.ErrAlreadyStarted))
	})

	It("should claim composite resources", func(ctx SpecContext) {
		resourceClaimer := startClaimer(ctx, plugins(ctx)...)

		By("failing if nonexistent resource is claimed")
		resourceClaim, err := resourceClaimer.Claim(ctx, v1alpha1.ResourceList{
			"not_existing_plugin": resource.MustParse("1"),
		})
		Expect(err).To(MatchError(claim.ErrMissingPlugins))
		Expect(resourceClaim).To(BeNil())

		By("claiming correct resources")
		resourceClaim, err = resourceClaimer.Claim(ctx, v1alpha1.ResourceList{
			resourceCPU: resource.MustParse("3"),
			resourceHDD: resource.MustParse("1"),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resourceClaim).To(HaveKey(resourceCPU))
		Expect(resourceClaim).To(HaveKey(resourceHDD))

		cpuClaim, ok := resourceClaim[resourceCPU].(pool.Claim)
		Expect(ok).To(BeTrue())
		Expect(cpuClaim.Quantity()).To(Equal(int64(3)))
		Expect(cpu.Allocated()).To(Equal(int64(3)))
		Expect(hdd.Allocated()).To(Equal(int64(1)))

		By("failing if one resource is insufficient")
		_, err = resourceClaimer.Claim(ctx, v1alpha1.ResourceList{
			resourceCPU: resource.MustParse("1"),
			resourceHDD: resource.MustParse("2"),
		})
		Expect(err).To(MatchError(claim.ErrInsufficientResources))
		Expect(cpu.Allocated()).To(Equal(int64(3)))
		Expect(hdd.Allocated()).To(Equal(int64(1)))

		By("releasing resources")
		Expect(resourceClaimer.Release(ctx, resourceClaim)).To(Succeed())
		Expect(cpu.Allocated()).To(BeZero())
		Expect(hdd.Allocated()).To(BeZero())

		By("claiming all resources")
		_, err = resourceClaimer.Claim(ctx, v1alpha1.ResourceList{
			resourceCPU: resource.MustParse("4"),
		})
		Expect(err).NotTo(HaveOccurred())

		By("claiming again resource")
		_, err = resourceClaimer.Claim(ctx, v1alpha1.ResourceList{
			resourceCPU: resource.MustParse("1"),
		})
		Expect(err).Should(MatchError(claim.ErrInsufficientResources))
	})

	It("should fail to release claims twice", func(ctx SpecContext) {
		resourceClaimer := startClaimer(ctx, plugins(ctx)...)

		resourceClaim, err := resourceClaimer.Claim(ctx, v1alpha1.ResourceList{resourceHDD: resource.MustParse("1")})
		Expect(err).NotTo(HaveOccurred())
		Expect(resourceClaimer.Release(ctx, resourceClaim)).To(Succeed())

		err = resourceClaimer.Release(ctx, resourceClaim)
		Expect(err).To(MatchError(claim.ErrReleaseClaim))
		Expect(err).To(MatchError(claim.ErrInvalidResourceClaim))
	})

	It("should keep other claims when a claim is released twice", func(ctx SpecContext) {
		resourceClaimer := startClaimer(ctx, plugins(ctx)...)

		first, err := resourceClaimer.Claim(ctx, v1alpha1.ResourceList{resourceCPU: resource.MustParse("2")})
		Expect(err).NotTo(HaveOccurred())
		second, err := resourceClaimer.Claim(ctx, v1alpha1.ResourceList{resourceCPU: resource.MustParse("2")})
		Expect(err).NotTo(HaveOccurred())

		Expect(resourceClaimer.Release(ctx, first)).To(Succeed())
		Expect(resourceClaimer.Release(ctx, first)).To(MatchError(claim.ErrInvalidResourceClaim))
		Expect(cpu.Allocated()).To(Equal(int64(2)))

		_, err = resourceClaimer.Claim(ctx, v1alpha1.ResourceList{resourceCPU: resource.MustParse("3")})
		Expect(err).To(MatchError(claim.ErrInsufficientResources))

		Expect(resourceClaimer.Release(ctx, second)).To(Succeed())
		Expect(cpu.Allocated()).To(BeZero())
	})

	It("should retire and purchase stock", func(ctx SpecContext) {
		resourceClaimer := startClaimer(ctx, append(plugins(ctx), statelessPlugin{})...)

		By("retiring a failed disk")
		resourceClaim, err := resourceClaimer.Claim(ctx, v1alpha1.ResourceList{resourceHDD: resource.MustParse("1")})
		Expect(err).NotTo(HaveOccurred())
		Expect(resourceClaimer.Retire(ctx, resourceClaim)).To(Succeed())
		Expect(hdd.Total()).To(Equal(int64(1)))
		Expect(hdd.Allocated()).To(BeZero())

		By("purchasing a replacement")
		Expect(resourceClaimer.Purchase(ctx, v1alpha1.ResourceList{resourceHDD: resource.MustParse("1")})).To(Succeed())
		Expect(hdd.Total()).To(Equal(int64(2)))

		By("purchasing an invalid quantity")
		Expect(resourceClaimer.Purchase(ctx, v1alpha1.ResourceList{resourceHDD: resource.MustParse("0")})).To(HaveOccurred())
		Expect(hdd.Total()).To(Equal(int64(2)))

		By("purchasing for a plugin without stock")
		err = resourceClaimer.Purchase(ctx, v1alpha1.ResourceList{resourceAny: resource.MustParse("1")})
		Expect(err).To(MatchError(claim.ErrNotStocked))

		By("retiring on a plugin without stock")
		anyClaim, err := resourceClaimer.Claim(ctx, v1alpha1.ResourceList{resourceAny: resource.MustParse("1")})
		Expect(err).NotTo(HaveOccurred())
		Expect(resourceClaimer.Retire(ctx, anyClaim)).To(MatchError(claim.ErrNotStocked))

		By("purchasing for a missing plugin")
		err = resourceClaimer.Purchase(ctx, v1alpha1.ResourceList{"missing": resource.MustParse("1")})
		Expect(err).To(MatchError(claim.ErrMissingPlugins))
	})

	It("should serialize concurrent claims", func(ctx SpecContext) {
		resourceClaimer := startClaimer(ctx, plugins(ctx)...)
		Expect(resourceClaimer.Purchase(ctx, v1alpha1.ResourceList{resourceCPU: resource.MustParse("96")})).To(Succeed())

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for range 200 {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				if _, err := resourceClaimer.Claim(ctx, v1alpha1.ResourceList{resourceCPU: resource.MustParse("1")}); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Expect(succeeded).To(Equal(100))
		Expect(cpu.Allocated()).To(Equal(int64(100)))
		Expect(cpu.Available()).To(BeZero())
	})

	It("should refuse requests after shutdown", func(ctx SpecContext) {
		resourceClaimer, err := claim.NewResourceClaimer(log.FromContext(ctx), plugins(ctx)...)
		Expect(err).NotTo(HaveOccurred())

		innerCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			done <- resourceClaimer.Start(innerCtx)
		}()
		Expect(resourceClaimer.WaitUntilStarted(ctx)).To(Succeed())

		cancel()
		Eventually(done).Should(Receive(BeNil()))
		Eventually(func() error {
			_, err := resourceClaimer.Claim(ctx, v1alpha1.ResourceList{resourceCPU: resource.MustParse("1")})
			return err
		}).Should(MatchError(claim.ErrNotStarted))
	})
})
