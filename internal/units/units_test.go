package units_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/TylerFair/jaxoplanet/internal/units"
	"github.com/TylerFair/jaxoplanet/internal/units/unitmath"
)

var _ = Describe("Quantity", func() {
	Describe("conversion", func() {
		It("round-trips between compatible units", func() {
			p := units.Scalar(3.2, units.Day)
			h, err := p.To(units.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Scalar()).To(BeNumerically("~", 76.8, 1e-12))

			back, err := h.To(units.Day)
			Expect(err).NotTo(HaveOccurred())
			Expect(back.Scalar()).To(BeNumerically("~", 3.2, 1e-12))
		})

		It("converts slices element-wise", func() {
			q := units.New([]float64{1, 2, 3}, units.AU)
			m, err := q.To(units.Meter)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Magnitude()).To(HaveLen(3))
			Expect(m.Magnitude()[1]).To(BeNumerically("~", 2*1.495978707e11, 1))
		})

		It("rejects incompatible dimensions with a DimError", func() {
			p := units.Scalar(3.2, units.Day)
			_, err := p.To(units.SolarRadius)
			var dimErr *units.DimError
			Expect(err).To(HaveOccurred())
			Expect(errors.As(err, &dimErr)).To(BeTrue())
		})
	})

	Describe("unitmath adapter", func() {
		It("adds after converting the right operand", func() {
			sum, err := unitmath.Add(units.Scalar(1, units.Day), units.Scalar(12, units.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(sum.Unit()).To(Equal(units.Day))
			Expect(sum.Scalar()).To(BeNumerically("~", 1.5, 1e-12))
		})

		It("refuses to add a length to a time", func() {
			_, err := unitmath.Add(units.Scalar(1, units.Day), units.Scalar(1, units.SolarRadius))
			var dimErr *units.DimError
			Expect(errors.As(err, &dimErr)).To(BeTrue())
		})

		It("refuses operands of different lengths with a SizeError", func() {
			long := units.New([]float64{1, 2, 3}, units.Day)
			short := units.New([]float64{1}, units.Hour)

			var sizeErr *units.SizeError
			_, err := unitmath.Add(long, short)
			Expect(errors.As(err, &sizeErr)).To(BeTrue())
			Expect(sizeErr.Have).To(Equal(3))
			Expect(sizeErr.Want).To(Equal(1))

			_, err = unitmath.Sub(short, long)
			Expect(errors.As(err, &sizeErr)).To(BeTrue())
			_, err = unitmath.Mul(long, short)
			Expect(errors.As(err, &sizeErr)).To(BeTrue())
			_, err = unitmath.Div(long, short)
			Expect(errors.As(err, &sizeErr)).To(BeTrue())
		})

		It("combines dimensions under division", func() {
			v, err := unitmath.Div(units.Scalar(10, units.AU), units.Scalar(2, units.Year))
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Unit().Dim).To(Equal(units.Dim{Length: 1, Time: -1}))
			Expect(v.Scalar()).To(BeNumerically("~", 5, 1e-12))
		})

		It("takes trigonometry only on angles", func() {
			s, err := unitmath.Sin(units.Scalar(90, units.Degree))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Scalar()).To(BeNumerically("~", 1, 1e-12))

			_, err = unitmath.Sin(units.Scalar(1, units.Day))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("parsing", func() {
		It("reads a value with a unit symbol", func() {
			q, err := units.Parse("10.5 d")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Unit()).To(Equal(units.Day))
			Expect(q.Scalar()).To(BeNumerically("~", 10.5, 1e-12))
		})

		It("defaults to dimensionless", func() {
			q, err := units.Parse("0.04")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Unit().Dim).To(Equal(units.Dim{}))
		})

		It("rejects unknown symbols", func() {
			_, err := units.Parse("3 parsec")
			Expect(err).To(HaveOccurred())
		})
	})
})
