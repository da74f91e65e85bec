package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/LuckySan/controlling-fun/internal/control"
	"github.com/LuckySan/controlling-fun/internal/dynamo"
	"github.com/LuckySan/controlling-fun/internal/integrators"
	"github.com/LuckySan/controlling-fun/internal/physics"
)

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func scenarioParams() physics.Params {
	p := physics.DefaultParams()
	p.Mass = 1.0
	p.Length = 1.5
	p.Gravity = 9.81
	p.Dt = 0.01
	p.TipAngle = radians(90)
	return p
}

var _ = Describe("Params", func() {
	It("derives the rod-about-end inertia", func() {
		p := scenarioParams()
		Expect(p.Inertia()).To(BeNumerically("~", 1.0*1.5*1.5/3, 1e-12))
	})

	DescribeTable("rejects misconfiguration at construction",
		func(mutate func(*physics.Params)) {
			p := scenarioParams()
			mutate(&p)
			body, err := physics.New(p, nil)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(body).To(BeNil())
		},
		Entry("zero mass", func(p *physics.Params) { p.Mass = 0 }),
		Entry("negative length", func(p *physics.Params) { p.Length = -1 }),
		Entry("negative dt", func(p *physics.Params) { p.Dt = -0.01 }),
		Entry("zero tip angle", func(p *physics.Params) { p.TipAngle = 0 }),
		Entry("negative clamp", func(p *physics.Params) { p.MaxTorque = -5 }),
		Entry("NaN gravity", func(p *physics.Params) { p.Gravity = math.NaN() }),
	)

	It("rejects a non-finite initial angle", func() {
		_, err := physics.New(scenarioParams(), nil, physics.WithInitialAngle(math.Inf(1)))
		Expect(err).To(MatchError(dynamo.ErrInvalidState))
	})
})

var _ = Describe("Body", func() {
	var params physics.Params

	BeforeEach(func() {
		params = scenarioParams()
	})

	Context("falling without correction", func() {
		It("confirms the destabilising gravity torque after one tick", func() {
			start := radians(10)
			body, err := physics.New(params, control.NewConstant(0), physics.WithInitialAngle(start))
			Expect(err).NotTo(HaveOccurred())

			body.Step()
			s := body.Snapshot()

			Expect(math.Abs(s.ThetaDot)).To(BeNumerically(">", 0))
			Expect(s.Theta).To(BeNumerically(">", start))
			Expect(s.Tipped).To(BeFalse())
		})

		It("stays running until the angle exceeds 90 degrees", func() {
			body, err := physics.New(params, control.NewConstant(0), physics.WithInitialAngle(radians(10)))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 5000 && !body.Tipped(); i++ {
				body.Step()
				s := body.Snapshot()
				if math.Abs(s.Theta) <= radians(90) {
					Expect(s.Tipped).To(BeFalse())
				} else {
					Expect(s.Tipped).To(BeTrue())
				}
			}
			Expect(body.Tipped()).To(BeTrue())
			Expect(body.Phase()).To(Equal(physics.Tipped))
		})

		It("does not decay toward upright near theta=0", func() {
			body, err := physics.New(params, nil, physics.WithInitialAngle(0.01))
			Expect(err).NotTo(HaveOccurred())

			prev := 0.01
			for i := 0; i < 300 && !body.Tipped(); i++ {
				body.Step()
				mag := math.Abs(body.Snapshot().Theta)
				Expect(mag).To(BeNumerically(">=", prev))
				prev = mag
			}
			Expect(prev).To(BeNumerically(">", 0.01))
		})

		It("conserves energy within Euler drift while undriven", func() {
			body, err := physics.New(params, control.NewConstant(0), physics.WithInitialAngle(0.05))
			Expect(err).NotTo(HaveOccurred())

			e0 := body.Energy(body.Snapshot())
			for i := 0; i < 50; i++ {
				body.Step()
			}
			e1 := body.Energy(body.Snapshot())
			Expect(math.Abs(e1-e0) / math.Abs(e0)).To(BeNumerically("<", 0.01))
		})
	})

	Context("tipping", func() {
		It("is one-way and freezes the state", func() {
			var events []physics.TipEvent
			body, err := physics.New(params, nil,
				physics.WithInitialAngle(radians(80)),
				physics.WithTipReporter(physics.TipFunc(func(e physics.TipEvent) {
					events = append(events, e)
				})),
			)
			Expect(err).NotTo(HaveOccurred())

			body.SetCommand(dynamo.Right)
			for i := 0; i < 2000 && !body.Tipped(); i++ {
				body.Step()
			}
			Expect(body.Tipped()).To(BeTrue())

			frozen := body.Snapshot()
			for i := 0; i < 100; i++ {
				body.SetCommand(dynamo.Left)
				body.Step()
			}
			after := body.Snapshot()
			Expect(after.Theta).To(Equal(frozen.Theta))
			Expect(after.ThetaDot).To(Equal(frozen.ThetaDot))
			Expect(after.X).To(Equal(frozen.X))
			Expect(after.Elapsed).To(Equal(frozen.Elapsed))
			Expect(after.Tipped).To(BeTrue())

			Expect(events).To(HaveLen(1))
			Expect(events[0].Time).To(Equal(frozen.Elapsed))
			Expect(events[0].Angle).To(Equal(frozen.Theta))
			Expect(math.Abs(events[0].AngleDeg())).To(BeNumerically(">", 90))
		})

		It("accumulates time on the tipping tick", func() {
			body, err := physics.New(params, nil, physics.WithInitialAngle(radians(89.99)), physics.WithInitialRate(5))
			Expect(err).NotTo(HaveOccurred())

			body.Step()
			s := body.Snapshot()
			Expect(s.Tipped).To(BeTrue())
			Expect(s.Elapsed).To(BeNumerically("~", params.Dt, 1e-12))
		})
	})

	Context("horizontal kinematics", func() {
		It("integrates the commanded velocity and stops immediately", func() {
			params.MoveSpeed = 2.5
			body, err := physics.New(params, control.NewPID(control.DefaultKp, control.DefaultKi, control.DefaultKd))
			Expect(err).NotTo(HaveOccurred())

			const n = 37
			for i := 0; i < n; i++ {
				body.SetCommand(dynamo.Right)
				body.Step()
			}
			body.SetCommand(dynamo.Neutral)
			body.Step()

			s := body.Snapshot()
			Expect(s.X).To(BeNumerically("~", n*params.MoveSpeed*params.Dt, 1e-9))
			Expect(s.XVelocity).To(Equal(0.0))
		})

		It("clamps out-of-range commands", func() {
			body, err := physics.New(params, control.NewConstant(0))
			Expect(err).NotTo(HaveOccurred())

			body.SetCommand(dynamo.Command(-7))
			body.Step()
			Expect(body.Snapshot().XVelocity).To(Equal(-params.MoveSpeed))
			Expect(body.Snapshot().Command).To(Equal(dynamo.Left))
		})
	})

	Context("corrective torque", func() {
		It("derives torque from the command without a controller", func() {
			params.TorqueEffect = 7
			body, err := physics.New(params, nil)
			Expect(err).NotTo(HaveOccurred())

			body.SetCommand(dynamo.Left)
			body.Step()
			Expect(body.Snapshot().Torque).To(Equal(-7.0))
		})

		It("clamps to the configured maximum preserving sign", func() {
			params.MaxTorque = 100
			body, err := physics.New(params, control.NewConstant(-250))
			Expect(err).NotTo(HaveOccurred())

			body.Step()
			Expect(body.Snapshot().Torque).To(Equal(-100.0))
		})

		It("stabilises from 30 degrees with the default PID", func() {
			pid := control.NewPID(control.DefaultKp, control.DefaultKi, control.DefaultKd)
			start := radians(30)
			body, err := physics.New(params, pid, physics.WithInitialAngle(start))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 2000; i++ {
				body.Step()
				Expect(body.Tipped()).To(BeFalse())
			}
			Expect(math.Abs(body.Snapshot().Theta)).To(BeNumerically("<", radians(5)))
			Expect(math.Abs(body.Snapshot().Theta)).To(BeNumerically("<", start))
		})

		It("tips under the reference open-loop torque", func() {
			ref := params
			ref.Dt = 0.005
			ref.MaxTorque = 100
			body, err := physics.New(ref, control.NewConstant(-100), physics.WithInitialAngle(radians(20)))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 10000 && !body.Tipped(); i++ {
				body.Step()
			}
			Expect(body.Tipped()).To(BeTrue())
			Expect(body.Snapshot().Theta).To(BeNumerically("<", -radians(90)))
		})
	})

	Context("integration scheme", func() {
		It("uses the configured scheme", func() {
			a, _ := physics.New(params, nil, physics.WithInitialAngle(0.2), physics.WithInitialRate(1))
			b, _ := physics.New(params, nil, physics.WithInitialAngle(0.2), physics.WithInitialRate(1),
				physics.WithScheme(integrators.NewExplicitEuler()))

			a.Step()
			b.Step()
			Expect(b.Snapshot().Theta).To(BeNumerically("~", 0.2+1*params.Dt, 1e-12))
			Expect(a.Snapshot().Theta).NotTo(Equal(b.Snapshot().Theta))
		})
	})
})
