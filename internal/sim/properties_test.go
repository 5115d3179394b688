package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odosim/internal/sim"
)

var _ = Describe("Simulator", func() {
	var cfg sim.Config

	BeforeEach(func() {
		cfg = sim.DefaultConfig()
		cfg.Seed = 42
	})

	Context("with the exact observation model", func() {
		var log *sim.Log

		BeforeEach(func() {
			var err error
			log, err = sim.New(sim.NewExactObservation(4.0, sim.DefaultDueTolerance)).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("labels the log with the exact variant", func() {
			Expect(log.Variant).To(Equal(sim.VariantExact))
		})

		It("reports the true position on due steps and zeros elsewhere", func() {
			schedule := sim.Schedule{Period: 4.0, Tolerance: sim.DefaultDueTolerance}
			for _, r := range log.Records {
				if schedule.Due(r.Time) {
					Expect(r.Observation).To(Equal(sim.Observation{X: r.True.X, Y: r.True.Y, Due: true}))
				} else {
					Expect(r.Observation).To(BeZero())
				}
			}
		})

		It("records the configured input noise on every step", func() {
			for _, r := range log.Records {
				Expect(r.InputNoise).To(Equal(cfg.InputNoise))
			}
		})
	})

	Context("with the noisy observation model", func() {
		It("attaches sigma to due observations only", func() {
			log, err := sim.New(sim.NewNoisyObservation(4.0, 0.1, 0.25)).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(log.Variant).To(Equal(sim.VariantNoisy))

			due := 0
			for _, r := range log.Records {
				if r.Observation.Due {
					due++
					Expect(r.Observation.Sigma).To(Equal(0.25))
					Expect(r.Observation.X).To(BeNumerically("~", r.True.X, 2.0))
				} else {
					Expect(r.Observation).To(BeZero())
				}
			}
			Expect(due).To(BeNumerically(">", 0))
		})
	})

	DescribeTable("end-to-end noiseless motion",
		func(u sim.Input, want sim.Pose) {
			cfg = sim.Config{Dt: 0.1, SimTime: 1.0, Input: u}
			log, err := sim.New(sim.NewExactObservation(4.0, 0.1)).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(log.Records).To(HaveLen(10))

			final, ok := log.Final()
			Expect(ok).To(BeTrue())
			for _, p := range []sim.Pose{final.True, final.Odometry} {
				Expect(p.X).To(BeNumerically("~", want.X, 1e-9))
				Expect(p.Y).To(BeNumerically("~", want.Y, 1e-9))
				Expect(p.Yaw).To(BeNumerically("~", want.Yaw, 1e-9))
			}
		},
		Entry("straight line", sim.Input{V: 1.0}, sim.Pose{X: 1.0}),
		Entry("rotation in place", sim.Input{Omega: math.Pi / 2}, sim.Pose{Yaw: math.Pi / 2}),
	)

	It("rejects a non-positive observation period", func() {
		_, err := sim.New(sim.NewNoisyObservation(0, 0.1, 0.1)).Run(context.Background(), cfg)
		Expect(err).To(MatchError(sim.ErrInvalidConfig))
	})

	It("starts both poses from the configured initial pose", func() {
		cfg = sim.Config{Dt: 0.1, SimTime: 0.1, Initial: sim.Pose{X: 2, Y: 3, Yaw: 1}}
		log, err := sim.New(sim.NewExactObservation(4.0, 0.1)).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(log.Records).To(HaveLen(1))
		Expect(log.Records[0].True).To(Equal(cfg.Initial))
		Expect(log.Records[0].Odometry).To(Equal(cfg.Initial))
	})
})
