package engine_test

import (
	"context"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/anim"
	"github.com/san-kum/orrery/internal/engine"
	"github.com/san-kum/orrery/internal/render"
	"github.com/san-kum/orrery/internal/scene"
)

func wrapped(k int, rate float64) float64 {
	a := math.Mod(float64(k)*rate, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func burst(n int) engine.Option {
	return engine.WithFrameSource(func() anim.FrameSource { return anim.NewBurst(n) })
}

func waitFrames(e *engine.Engine, n uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ExpectWithOffset(1, e.Scheduler().WaitFrames(ctx, n)).To(Succeed())
}

var earth = scene.BodyConfig{Name: "earth", Size: 6, Distance: 62, RevolutionSpeed: 0.01, SpinSpeed: 0.02}

var saturn = scene.BodyConfig{
	Name: "saturn", Size: 10, Distance: 138,
	Ring:            &scene.RingSpec{InnerRadius: 10, OuterRadius: 20},
	RevolutionSpeed: 0.0009, SpinSpeed: 0.038,
}

var _ = Describe("Engine", func() {
	var (
		host *render.MemoryHost
		env  scene.Environment
	)

	BeforeEach(func() {
		host = render.NewMemoryHost(800, 600)
		env = scene.DefaultEnvironment()
	})

	Describe("Mount", func() {
		It("refuses a missing surface", func() {
			e := engine.New(burst(1))
			_, err := e.Mount(nil, nil, env)
			Expect(err).To(MatchError(engine.ErrNoSurface))
			Expect(e.Mounted()).To(BeFalse())
		})

		It("refuses a second mount", func() {
			e := engine.New(burst(0))
			_, err := e.Mount(host, nil, env)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(e.Unmount)

			_, err = e.Mount(render.NewMemoryHost(1, 1), nil, env)
			Expect(err).To(MatchError(engine.ErrAlreadyMounted))
		})

		It("detaches the host and leaves nothing running when the config is invalid", func() {
			e := engine.New(burst(10))
			bad := earth
			bad.Size = -1
			_, err := e.Mount(host, []scene.BodyConfig{earth, bad}, env)

			Expect(err).To(MatchError(scene.ErrInvalidConfig))
			Expect(e.Mounted()).To(BeFalse())
			Expect(e.Scheduler()).To(BeNil())
			Expect(host.Attached()).To(BeFalse())
			Expect(host.Len()).To(BeZero())
			Expect(host.Presented()).To(BeZero())
		})

		It("mounts an empty system and still animates the center", func() {
			e := engine.New(burst(5))
			_, err := e.Mount(host, []scene.BodyConfig{}, env)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(e.Unmount)

			waitFrames(e, 5)
			Expect(e.Scheduler().States()).To(BeEmpty())
			Expect(e.Scheduler().Center()).To(BeNumerically("~", wrapped(5, scene.DefaultCenterSpin), 1e-9))
			Expect(e.Scene().Paths()).To(BeEmpty())
			Expect(host.Presented()).To(BeEquivalentTo(5))
		})

		It("reports texture fallbacks without failing", func() {
			e := engine.New(burst(0))
			body := earth
			body.Texture = "/image/earth.jpg"
			warnings, err := e.Mount(host, []scene.BodyConfig{body}, env)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(e.Unmount)

			Expect(warnings).To(HaveLen(1))
			Expect(warnings[0].Body).To(Equal("earth"))
			mesh, _ := e.Scene().Node(e.Scene().Satellites()[0].Mesh)
			Expect(mesh.Material.Fallback).To(BeTrue())
		})
	})

	Describe("animation", func() {
		It("advances every body by exactly K increments after K frames", func() {
			const k = 250
			e := engine.New(burst(k))
			_, err := e.Mount(host, []scene.BodyConfig{earth, saturn}, env)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(e.Unmount)

			waitFrames(e, k)
			states := e.Scheduler().States()
			Expect(states).To(HaveLen(2))
			for i, b := range []scene.BodyConfig{earth, saturn} {
				Expect(states[i].Revolution).To(BeNumerically("~", wrapped(k, b.RevolutionSpeed), 1e-9))
				Expect(states[i].Spin).To(BeNumerically("~", wrapped(k, b.SpinSpeed), 1e-9))

				sat := e.Scene().Satellites()[i]
				Expect(e.Scene().Rotation(sat.Pivot).Y()).To(Equal(states[i].Revolution))
				Expect(e.Scene().Rotation(sat.Mesh).Y()).To(Equal(states[i].Spin))
			}
		})

		It("keeps a ring in the orbital plane as its body moves", func() {
			e := engine.New(burst(37))
			_, err := e.Mount(host, []scene.BodyConfig{saturn}, env)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(e.Unmount)

			waitFrames(e, 37)
			sc := e.Scene()
			sat := sc.Satellites()[0]
			ring := sc.WorldMatrix(sat.Ring)
			normal := ring.Mul4x1(mgl64.Vec4{0, 0, 1, 0}).Vec3()
			Expect(normal.Sub(mgl64.Vec3{0, 1, 0}).Len()).To(BeNumerically("<", 1e-9))
			Expect(sc.WorldPosition(sat.Ring).Sub(sc.WorldPosition(sat.Mesh)).Len()).To(BeNumerically("<", 1e-9))

			frame := host.Last()
			Expect(frame).NotTo(BeNil())
			Expect(frame.Rings).To(HaveLen(1))
		})
	})

	Describe("resize", func() {
		It("updates the camera and surface without disturbing the loop", func() {
			src := anim.NewManual()
			e := engine.New(engine.WithFrameSource(func() anim.FrameSource { return src }))
			_, err := e.Mount(host, []scene.BodyConfig{earth}, env)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(e.Unmount)

			for i := 0; i < 10; i++ {
				Expect(src.Tick()).To(BeTrue())
			}
			waitFrames(e, 10)

			host.SetSize(1920, 1080)
			Expect(e.Camera().Aspect).To(BeNumerically("~", 1920.0/1080, 1e-12))
			w, h := host.Size()
			Expect([]int{w, h}).To(Equal([]int{1920, 1080}))

			host.SetSize(1920, 0)
			Expect(e.Camera().Aspect).To(BeNumerically("~", 1920.0/1080, 1e-12))

			for i := 0; i < 10; i++ {
				Expect(src.Tick()).To(BeTrue())
			}
			waitFrames(e, 20)
			Expect(e.Scheduler().State()).To(Equal(anim.Running))
			Expect(e.Scheduler().States()[0].Revolution).To(BeNumerically("~", wrapped(20, earth.RevolutionSpeed), 1e-9))
		})
	})

	Describe("Unmount", func() {
		It("tears down everything mount set up", func() {
			e := engine.New(burst(3))
			_, err := e.Mount(host, []scene.BodyConfig{earth, saturn}, env)
			Expect(err).NotTo(HaveOccurred())
			waitFrames(e, 3)

			sc, sched := e.Scene(), e.Scheduler()
			Expect(host.Len()).To(Equal(1))

			Expect(e.Unmount()).To(Succeed())
			Expect(sched.State()).To(Equal(anim.Cancelled))
			Expect(sc.Len()).To(BeZero())
			Expect(sc.Disposed()).To(BeTrue())
			Expect(host.Len()).To(BeZero())
			Expect(host.Attached()).To(BeFalse())
			Expect(e.Mounted()).To(BeFalse())

			presented := host.Presented()
			host.SetSize(100, 100)
			Consistently(host.Presented, 50*time.Millisecond).Should(Equal(presented))

			Expect(e.Unmount()).To(MatchError(engine.ErrNotMounted))
		})

		It("restarts from zero on a second mount", func() {
			e := engine.New(burst(40))
			_, err := e.Mount(host, []scene.BodyConfig{earth}, env)
			Expect(err).NotTo(HaveOccurred())
			waitFrames(e, 40)
			Expect(e.Unmount()).To(Succeed())

			e2 := engine.New(burst(3))
			_, err = e2.Mount(host, []scene.BodyConfig{earth}, env)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(e2.Unmount)
			waitFrames(e2, 3)

			Expect(e2.Scheduler().States()[0].Revolution).To(BeNumerically("~", wrapped(3, earth.RevolutionSpeed), 1e-12))
			attaches, detaches := host.Lifecycle()
			Expect(attaches).To(Equal(2))
			Expect(detaches).To(Equal(1))
		})

		It("carries nothing over when the same engine mounts an empty system", func() {
			e := engine.New(burst(10))
			_, err := e.Mount(host, []scene.BodyConfig{earth, saturn}, env)
			Expect(err).NotTo(HaveOccurred())
			waitFrames(e, 10)
			Expect(e.Cancel()).To(Succeed())
			Expect(e.Unmount()).To(Succeed())
			Expect(e.Summary().Bodies).To(BeEmpty())

			_, err = e.Mount(host, nil, env)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(e.Unmount)
			waitFrames(e, 10)

			sc := e.Scene()
			Expect(e.Scheduler().States()).To(BeEmpty())
			Expect(e.Scheduler().Frames()).To(Equal(uint64(10)))
			Expect(sc.Satellites()).To(BeEmpty())
			Expect(sc.Paths()).To(BeEmpty())
			Expect(sc.Center()).NotTo(Equal(scene.NoNode))
			Expect(e.Summary().Center).To(Equal(env.Center.Name))
			Expect(e.Summary().Bodies).To(BeEmpty())
			Expect(host.Last().Spheres).To(HaveLen(1))
			Expect(host.Last().Lines).To(BeEmpty())
		})

		It("reloads a new configuration on the same host", func() {
			e := engine.New(burst(4))
			_, err := e.Mount(host, []scene.BodyConfig{earth}, env)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(e.Unmount)
			waitFrames(e, 4)

			_, err = e.Reload([]scene.BodyConfig{earth, saturn}, env)
			Expect(err).NotTo(HaveOccurred())
			waitFrames(e, 4)
			Expect(e.Scheduler().States()).To(HaveLen(2))
			Expect(e.Scheduler().States()[0].Revolution).To(BeNumerically("~", wrapped(4, earth.RevolutionSpeed), 1e-12))
		})
	})

	Describe("Cancel", func() {
		It("stops the loop but keeps the scene until unmount", func() {
			src := anim.NewManual()
			e := engine.New(engine.WithFrameSource(func() anim.FrameSource { return src }))
			Expect(e.Cancel()).To(MatchError(engine.ErrNotMounted))

			_, err := e.Mount(host, []scene.BodyConfig{earth}, env)
			Expect(err).NotTo(HaveOccurred())
			Expect(src.Tick()).To(BeTrue())
			waitFrames(e, 1)

			Expect(e.Cancel()).To(Succeed())
			Expect(e.Cancel()).To(Succeed())
			Expect(src.Tick()).To(BeFalse())
			Expect(e.Scene().Len()).NotTo(BeZero())
			Expect(e.Unmount()).To(Succeed())
		})
	})
})
