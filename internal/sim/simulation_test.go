package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/graph"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/vecmath"
)

// still is a configuration with every force switched off.
func still() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.RepulsionStrength = 0
	cfg.AttractionStrength = 0
	cfg.WallRepulsionStrength = 0
	cfg.Dampening = 1
	return cfg
}

func grid(s *sim.Simulation, spacing float64) {
	side := int(math.Ceil(math.Cbrt(float64(s.Len()))))
	for i := 0; i < s.Len(); i++ {
		x, y, z := i%side, (i/side)%side, i/(side*side)
		p := vecmath.New(float64(x), float64(y), float64(z)).Mul(spacing)
		Expect(s.Place(i, p, vecmath.Vec3{})).To(Succeed())
	}
}

var _ = Describe("Simulation", func() {
	schemes := []TableEntry{
		Entry("euler", dynamo.SchemeEuler),
		Entry("verlet", dynamo.SchemeVerlet),
		Entry("rk4", dynamo.SchemeRK4),
	}

	Describe("construction", func() {
		It("rejects an empty population", func() {
			_, err := sim.New(0)
			Expect(err).To(MatchError(dynamo.ErrEmptySimulation))
		})

		It("rejects a graph of the wrong size", func() {
			g, err := graph.New(3)
			Expect(err).NotTo(HaveOccurred())
			_, err = sim.New(4, sim.WithGraph(g))
			Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
		})

		It("rejects an unknown scheme", func() {
			_, err := sim.New(4, sim.WithScheme(dynamo.Scheme(9)))
			Expect(errors.Is(err, dynamo.ErrUnknownScheme)).To(BeTrue())
		})

		It("is reproducible for a fixed seed", func() {
			a, err := sim.New(30, sim.WithSeed(11), sim.WithJitter(0.01))
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.New(30, sim.WithSeed(11), sim.WithJitter(0.01))
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 20; i++ {
				Expect(a.Step()).To(Succeed())
				Expect(b.Step()).To(Succeed())
			}
			Expect(a.Positions()).To(Equal(b.Positions()))
		})

		It("keeps sphere placement within the spread", func() {
			s, err := sim.New(200, sim.WithSpread(2), sim.WithPlacement(particles.PlaceSphere))
			Expect(err).NotTo(HaveOccurred())
			for _, p := range s.Positions() {
				Expect(vecmath.Length(p)).To(BeNumerically("<=", 2))
			}
		})
	})

	DescribeTable("momentum sanity: with every force off nothing moves",
		func(scheme dynamo.Scheme) {
			s, err := sim.New(27, sim.WithConfig(still()), sim.WithScheme(scheme))
			Expect(err).NotTo(HaveOccurred())
			grid(s, 1)
			before := s.Snapshot()

			for i := 0; i < 100; i++ {
				Expect(s.Step()).To(Succeed())
			}
			after := s.Snapshot()
			Expect(after.Positions).To(Equal(before.Positions))
			Expect(after.Velocities).To(Equal(before.Velocities))
			Expect(after.Step).To(Equal(100))
		},
		schemes,
	)

	DescribeTable("integrators agree on a particle at rest",
		func(scheme dynamo.Scheme) {
			cfg := still()
			cfg.RepulsionStrength = 3
			cfg.AttractionStrength = 2
			s, err := sim.New(1, sim.WithConfig(cfg), sim.WithScheme(scheme))
			Expect(err).NotTo(HaveOccurred())
			start := vecmath.New(0.5, -1, 2)
			Expect(s.Place(0, start, vecmath.Vec3{})).To(Succeed())

			for i := 0; i < 50; i++ {
				Expect(s.Step()).To(Succeed())
			}
			Expect(s.Positions()[0]).To(Equal(start))
		},
		schemes,
	)

	DescribeTable("repulsion never brings an isolated pair closer",
		func(scheme dynamo.Scheme) {
			cfg := still()
			cfg.RepulsionStrength = 0.5
			cfg.Dampening = 0.95
			s, err := sim.New(2, sim.WithConfig(cfg), sim.WithScheme(scheme))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Place(0, vecmath.New(-0.5, 0, 0), vecmath.Vec3{})).To(Succeed())
			Expect(s.Place(1, vecmath.New(0.5, 0.1, 0), vecmath.Vec3{})).To(Succeed())

			dist := func() float64 {
				p := s.Positions()
				return vecmath.Distance(p[0], p[1])
			}
			last := dist()
			for i := 0; i < 200; i++ {
				Expect(s.Step()).To(Succeed())
				d := dist()
				Expect(d).To(BeNumerically(">=", last))
				last = d
			}
			Expect(last).To(BeNumerically(">", 1))
		},
		schemes,
	)

	Describe("collisions", func() {
		It("resolves the head-on example within one step", func() {
			cfg := still()
			cfg.Restitution = 0.8
			s, err := sim.New(2, sim.WithConfig(cfg), sim.WithBaseRadius(0.25), sim.WithScheme(dynamo.SchemeEuler))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Place(0, vecmath.New(-0.2, 0, 0), vecmath.New(0.1, 0, 0))).To(Succeed())
			Expect(s.Place(1, vecmath.New(0.2, 0, 0), vecmath.New(-0.1, 0, 0))).To(Succeed())

			Expect(s.Step()).To(Succeed())
			snap := s.Snapshot()
			Expect(snap.Velocities[0][0]).To(BeNumerically("~", -0.08, 1e-9))
			Expect(snap.Velocities[1][0]).To(BeNumerically("~", 0.08, 1e-9))
			Expect(s.LastCollisions().Impulses).To(Equal(1))

			ov := metrics.NewOverlaps()
			ov.Observe(snap)
			Expect(ov.Value()).To(BeZero())
		})

		It("separates a dense cluster of resting particles", func() {
			s, err := sim.New(40,
				sim.WithConfig(still()),
				sim.WithBaseRadius(0.1),
				sim.WithPlacement(particles.PlaceCube),
				sim.WithSpread(1),
				sim.WithSeed(5),
			)
			Expect(err).NotTo(HaveOccurred())

			ov := metrics.NewOverlaps()
			for i := 0; i < 500; i++ {
				Expect(s.Step()).To(Succeed())
			}
			ov.Observe(s.Snapshot())
			Expect(ov.Value()).To(BeZero())
		})
	})

	DescribeTable("walls contain a particle thrown outward",
		func(policy dynamo.WallClampPolicy) {
			cfg := still()
			cfg.WallRepulsionStrength = 0.01
			cfg.WallClamp = policy
			s, err := sim.New(1, sim.WithConfig(cfg), sim.WithScheme(dynamo.SchemeVerlet))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Place(0, vecmath.New(4.5, -4.5, 0), vecmath.New(0.5, -0.3, 0.2))).To(Succeed())

			limit := cfg.HalfSize()
			if policy == dynamo.ClampRadius {
				limit -= sim.DefaultBaseRadius
			}
			for i := 0; i < 300; i++ {
				Expect(s.Step()).To(Succeed())
				p := s.Positions()[0]
				for k := 0; k < 3; k++ {
					Expect(math.Abs(p[k])).To(BeNumerically("<=", limit+1e-12))
				}
			}
		},
		Entry("radius", dynamo.ClampRadius),
		Entry("half size", dynamo.ClampHalfSize),
	)

	Describe("degree-driven radius", func() {
		It("grows both endpoints by exactly one increment and collides on the next step", func() {
			cfg := still()
			cfg.RadiusScale = 0.5
			s, err := sim.New(3, sim.WithConfig(cfg), sim.WithBaseRadius(0.2))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Place(0, vecmath.New(0, 0, 0), vecmath.Vec3{})).To(Succeed())
			Expect(s.Place(1, vecmath.New(0.45, 0, 0), vecmath.Vec3{})).To(Succeed())
			Expect(s.Place(2, vecmath.New(3, 0, 0), vecmath.Vec3{})).To(Succeed())

			Expect(s.Step()).To(Succeed())
			Expect(s.LastCollisions().Contacts).To(BeZero())

			changed, err := s.AddEdge(0, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())
			radii := s.Snapshot().Radii
			Expect(radii[0]).To(BeNumerically("~", 0.3, 1e-12))
			Expect(radii[1]).To(BeNumerically("~", 0.3, 1e-12))
			Expect(radii[2]).To(BeNumerically("~", 0.2, 1e-12))

			Expect(s.Step()).To(Succeed())
			Expect(s.LastCollisions().Contacts).To(Equal(1))

			_, err = s.RemoveEdge(1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Snapshot().Radii[0]).To(BeNumerically("~", 0.2, 1e-12))
		})

		It("picks up edges added straight to the graph before the next step", func() {
			cfg := still()
			cfg.RadiusScale = 1
			s, err := sim.New(2, sim.WithConfig(cfg), sim.WithBaseRadius(0.1))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Graph().AddEdge(0, 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Step()).To(Succeed())
			Expect(s.Snapshot().Radii).To(HaveEach(BeNumerically("~", 0.2, 1e-12)))
		})

		It("rejects out-of-range edges without touching the graph", func() {
			s, err := sim.New(3)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.AddEdge(0, 3)
			Expect(errors.Is(err, dynamo.ErrIndexOutOfRange)).To(BeTrue())
			_, err = s.RemoveEdge(-1, 2)
			Expect(errors.Is(err, dynamo.ErrIndexOutOfRange)).To(BeTrue())
			Expect(s.Graph().EdgeCount()).To(BeZero())
		})
	})

	Describe("configuration misuse", func() {
		It("fails the step lazily on a zero time scale", func() {
			s, err := sim.New(4)
			Expect(err).NotTo(HaveOccurred())
			s.SetTimeScale(0)

			err = s.Step()
			Expect(errors.Is(err, dynamo.ErrDivisionByZero)).To(BeTrue())
			var stepErr *dynamo.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(Equal(0))
			Expect(s.Steps()).To(BeZero())

			s.SetTimeScale(1e5)
			Expect(s.Step()).To(Succeed())
			Expect(s.Steps()).To(Equal(1))
		})

		It("leaves overlapping particles untouched when the step fails", func() {
			cfg := still()
			cfg.TimeScale = 0
			s, err := sim.New(2, sim.WithConfig(cfg), sim.WithBaseRadius(0.25))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Place(0, vecmath.New(-0.2, 0, 0), vecmath.New(0.1, 0, 0))).To(Succeed())
			Expect(s.Place(1, vecmath.New(0.2, 0, 0), vecmath.New(-0.1, 0, 0))).To(Succeed())
			before := s.Snapshot()

			Expect(errors.Is(s.Step(), dynamo.ErrDivisionByZero)).To(BeTrue())
			after := s.Snapshot()
			Expect(after.Positions).To(Equal(before.Positions))
			Expect(after.Velocities).To(Equal(before.Velocities))
			Expect(s.LastCollisions().Impulses).To(BeZero())

			s.SetTimeScale(1)
			Expect(s.Step()).To(Succeed())
			Expect(s.LastCollisions().Impulses).To(Equal(1))
		})

		It("applies setters on the next step", func() {
			s, err := sim.New(2)
			Expect(err).NotTo(HaveOccurred())
			s.SetRepulsionStrength(-2)
			s.SetAttractionStrength(0.3)
			s.SetWallRepulsionStrength(0)
			s.SetDampening(0.5)
			s.SetRestitution(0.1)
			s.UpdateConfig(func(c *dynamo.Config) { c.Softening = 1 })

			cfg := s.Config()
			Expect(cfg.RepulsionStrength).To(Equal(-2.0))
			Expect(cfg.AttractionStrength).To(Equal(0.3))
			Expect(cfg.WallRepulsionStrength).To(BeZero())
			Expect(cfg.Dampening).To(Equal(0.5))
			Expect(cfg.Restitution).To(Equal(0.1))
			Expect(cfg.Softening).To(Equal(1.0))
		})
	})

	Describe("colors", func() {
		It("shares a color within a cluster", func() {
			s, err := sim.New(4)
			Expect(err).NotTo(HaveOccurred())
			_, _ = s.AddEdge(0, 2)
			_, _ = s.AddEdge(2, 3)

			Expect(s.Clusters()).To(Equal([]int{0, 1, 0, 0}))
			colors := s.Colors()
			Expect(colors[0]).To(Equal(colors[2]))
			Expect(colors[0]).To(Equal(colors[3]))
			Expect(colors[1]).To(Equal(sim.Neutral))
		})

		It("keeps an untouched cluster's color when others merge", func() {
			s, err := sim.New(6)
			Expect(err).NotTo(HaveOccurred())
			_, _ = s.AddEdge(0, 1)
			_, _ = s.AddEdge(2, 3)
			_, _ = s.AddEdge(4, 5)
			before := s.Colors()
			Expect(before[4]).NotTo(Equal(before[2]))

			_, err = s.AddEdge(1, 2)
			Expect(err).NotTo(HaveOccurred())
			after := s.Colors()
			Expect(s.Clusters()).To(Equal([]int{0, 0, 0, 0, 4, 4}))
			Expect(after[4]).To(Equal(before[4]))
			Expect(after[5]).To(Equal(before[5]))
			Expect(after[2]).To(Equal(before[0]))
		})
	})
})

var _ = Describe("Runner", func() {
	It("collects metrics and a trace", func() {
		s, err := sim.New(20, sim.WithSeed(3))
		Expect(err).NotTo(HaveOccurred())
		r := sim.NewRunner(s)
		for _, m := range metrics.Defaults() {
			r.AddMetric(m)
		}
		seen := 0
		r.AddObserver(sim.ObserverFunc(func(particles.Snapshot) { seen++ }))
		r.TraceEvery = 5

		res, err := r.Run(context.Background(), 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Steps).To(Equal(50))
		Expect(seen).To(Equal(50))
		Expect(res.Trace).To(HaveLen(10))
		Expect(res.Trace[0]).To(HaveLen(len(res.Names)))
		Expect(res.Metrics).To(HaveKey("kinetic_energy"))
		Expect(res.Metrics["containment"]).To(Equal(1.0))
	})

	It("stops when the context is cancelled", func() {
		s, err := sim.New(5)
		Expect(err).NotTo(HaveOccurred())
		ctx, cancel := context.WithCancel(context.Background())
		r := sim.NewRunner(s)
		r.AddObserver(sim.ObserverFunc(func(snap particles.Snapshot) {
			if snap.Step == 3 {
				cancel()
			}
		}))

		res, err := r.Run(ctx, 100)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Steps).To(Equal(3))
	})

	It("reports a non-finite state as a step error", func() {
		s, err := sim.New(2)
		Expect(err).NotTo(HaveOccurred())
		nan := math.NaN()
		Expect(s.Place(0, vecmath.New(nan, 0, 0), vecmath.Vec3{})).To(Succeed())

		_, err = sim.NewRunner(s).Run(context.Background(), 10)
		Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
	})
})

var _ = Describe("Ensemble", func() {
	It("returns one reproducible result per seed", func() {
		run := func() []*sim.Result {
			e := sim.NewEnsemble(15, 4, 100, 30)
			e.Limit = 2
			res, err := e.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			return res
		}
		a, b := run(), run()
		Expect(a).To(HaveLen(4))
		for i := range a {
			Expect(a[i].Steps).To(Equal(30))
			Expect(a[i].Metrics).To(Equal(b[i].Metrics))
		}

		summary := sim.Summarize(a)
		Expect(summary).To(HaveLen(len(a[0].Names)))
		for _, s := range summary {
			Expect(s.Mean).To(BeNumerically(">=", s.Min-1e-9))
			Expect(s.Mean).To(BeNumerically("<=", s.Max+1e-9))
			Expect(s.StdDev).To(BeNumerically(">=", 0))
		}
	})

	It("fails fast on a bad member configuration", func() {
		e := sim.NewEnsemble(0, 3, 1, 10)
		_, err := e.Run(context.Background())
		Expect(errors.Is(err, dynamo.ErrEmptySimulation)).To(BeTrue())
	})
})
