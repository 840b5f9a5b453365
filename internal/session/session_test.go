package session_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/treedrift/internal/config"
	"github.com/san-kum/treedrift/internal/experiment"
	"github.com/san-kum/treedrift/internal/grove"
	"github.com/san-kum/treedrift/internal/session"
)

func newSession(mutate func(*config.Config)) *session.Session {
	cfg := *config.DefaultConfig()
	cfg.Side = 6
	cfg.Seed = 21
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := session.New(cfg, experiment.NewRegistry())
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Session", func() {
	var s *session.Session

	BeforeEach(func() {
		s = newSession(nil)
	})

	It("starts idle with a recorded initial sample", func() {
		Expect(s.State()).To(Equal(session.Idle))
		Expect(s.Clock()).To(BeZero())
		Expect(s.Timeline().Samples).To(HaveLen(1))
	})

	It("refuses to tick unless running", func() {
		_, err := s.Tick()
		Expect(err).To(MatchError(session.ErrInvalidTransition))
	})

	It("advances one batch per tick", func() {
		Expect(s.Start()).To(Succeed())
		res, err := s.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Steps).To(Equal(40))
		Expect(s.Clock()).To(Equal(40))
		Expect(s.Timeline().Samples).To(HaveLen(2))
	})

	It("walks the start, pause and resume transitions", func() {
		Expect(s.Pause()).To(MatchError(session.ErrInvalidTransition))
		Expect(s.Resume()).To(MatchError(session.ErrInvalidTransition))
		Expect(s.Start()).To(Succeed())
		Expect(s.Start()).To(MatchError(session.ErrInvalidTransition))
		Expect(s.Pause()).To(Succeed())
		Expect(s.State()).To(Equal(session.Paused))
		Expect(s.Resume()).To(Succeed())
		Expect(s.State()).To(Equal(session.Running))
	})

	It("toggles through the same states", func() {
		Expect(s.Toggle()).To(Succeed())
		Expect(s.State()).To(Equal(session.Running))
		Expect(s.Toggle()).To(Succeed())
		Expect(s.State()).To(Equal(session.Paused))
		Expect(s.Toggle()).To(Succeed())
		Expect(s.State()).To(Equal(session.Running))
	})

	It("rebuilds an identical world on reset", func() {
		labels := s.World().Grid().Labels()
		counts := s.Census().Counts()

		Expect(s.Start()).To(Succeed())
		for range 5 {
			_, err := s.Tick()
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(s.Reset()).To(Succeed())

		Expect(s.State()).To(Equal(session.Idle))
		Expect(s.Clock()).To(BeZero())
		Expect(s.World().Grid().Labels()).To(Equal(labels))
		Expect(s.Census().Counts()).To(Equal(counts))
	})

	It("applies a new immigration interval to the running rule", func() {
		s = newSession(func(c *config.Config) { c.Variant = "immigration" })
		Expect(s.SetImmigrationInterval(0)).To(MatchError(grove.ErrParameterBounds))
		Expect(s.SetImmigrationInterval(10)).To(Succeed())
		Expect(s.World().Rule().(*grove.Immigration).Interval).To(Equal(10))
		Expect(s.NextImmigrationInterval(1)).To(Equal(100))
		Expect(s.NextImmigrationInterval(-1)).To(Equal(10))
	})

	It("cycles from an off-menu interval to its neighbors", func() {
		s = newSession(func(c *config.Config) {
			c.Variant = "immigration"
			c.Immigration.Interval = 7
		})
		Expect(s.NextImmigrationInterval(1)).To(Equal(10))

		Expect(s.SetImmigrationInterval(7)).To(Succeed())
		Expect(s.NextImmigrationInterval(-1)).To(Equal(1))

		Expect(s.SetImmigrationInterval(20000)).To(Succeed())
		Expect(s.NextImmigrationInterval(1)).To(Equal(1))
		Expect(s.NextImmigrationInterval(-1)).To(Equal(10000))
		Expect(s.World().Rule().(*grove.Immigration).Interval).To(Equal(10000))
	})

	Context("in the competition variant", func() {
		It("ends in done once a species is extinct", func() {
			s = newSession(func(c *config.Config) {
				c.Variant = "competition"
				c.Side = 2
			})
			Expect(s.Start()).To(Succeed())
			for i := 0; i < 100000 && s.State() == session.Running; i++ {
				_, err := s.Tick()
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(s.State()).To(Equal(session.Done))
			Expect(s.World().Terminal()).To(BeTrue())
			Expect(s.Toggle()).To(MatchError(session.ErrInvalidTransition))

			Expect(s.Reset()).To(Succeed())
			Expect(s.State()).To(Equal(session.Idle))
		})

		It("pauses at the step ceiling and extends it on resume", func() {
			s = newSession(func(c *config.Config) {
				c.Variant = "competition"
				c.Side = 20
				c.Competition.MaxSteps = 100
			})
			Expect(s.Start()).To(Succeed())
			for s.State() == session.Running {
				_, err := s.Tick()
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(s.State()).To(Equal(session.Paused))
			Expect(s.Clock()).To(Equal(100))

			Expect(s.Resume()).To(Succeed())
			Expect(s.World().Ceiling()).To(Equal(200))
			res, err := s.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(40))
		})

		It("pauses when the retry cap is exhausted and can resume", func() {
			s = newSession(func(c *config.Config) {
				c.Variant = "competition"
				c.Competition.ResourceSplit = 100
				c.Competition.MaxRetries = 1
			})
			Expect(s.Start()).To(Succeed())

			_, err := s.Tick()
			Expect(err).To(MatchError(grove.ErrRejectionExhausted))
			var stepErr *grove.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(s.State()).To(Equal(session.Paused))

			Expect(s.Resume()).To(Succeed())
			Expect(s.State()).To(Equal(session.Running))
		})

		It("accepts resource split changes between batches", func() {
			s = newSession(func(c *config.Config) { c.Variant = "competition" })
			Expect(s.SetResourceSplit(150)).To(MatchError(grove.ErrParameterBounds))
			Expect(s.SetResourceSplit(70)).To(Succeed())
			Expect(s.World().Rule().(*grove.Competition).Split).To(Equal(70.0))
			Expect(s.Config().Competition.ResourceSplit).To(Equal(70.0))
		})
	})

	It("never reaches done outside the competition variant", func() {
		s = newSession(func(c *config.Config) { c.Side = 2; c.NumSpecies = 2 })
		Expect(s.Start()).To(Succeed())
		for range 200 {
			_, err := s.Tick()
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(s.State()).To(Equal(session.Running))
	})
})
