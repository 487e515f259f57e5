package viewer_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/render"
	"github.com/san-kum/molview/internal/scene"
	"github.com/san-kum/molview/internal/viewer"
)

func chain(n int) *molecule.Molecule {
	m := &molecule.Molecule{}
	for i := 0; i < n; i++ {
		m.Atoms = append(m.Atoms, molecule.Atom{Element: "C", Position: molecule.Vec3{X: 1.5 * float64(i)}})
		if i > 0 {
			_ = m.AddBond(i-1, i)
		}
	}
	return m
}

// fixedOpen serves molecules by name; "slow" sources wait for release.
type fixedOpen struct {
	release chan struct{}
}

func (f *fixedOpen) open(ctx context.Context, source string) (*molecule.Molecule, error) {
	switch source {
	case "slow":
		<-f.release
		return chain(5), nil
	case "fast":
		return chain(2), nil
	case "three":
		return chain(3), nil
	}
	return nil, errors.New("no such file")
}

var _ = Describe("Context", func() {
	var (
		raster, labels *render.Recorder
		opener         *fixedOpen
		vc             *viewer.Context
		ctx            context.Context
	)

	BeforeEach(func() {
		raster, labels = render.NewRecorder(), render.NewRecorder()
		opener = &fixedOpen{release: make(chan struct{})}
		vc = viewer.NewContext(raster, labels, opener.open, scene.DefaultParams())
		ctx = context.Background()
	})

	It("draws the loaded molecule on both surfaces", func() {
		Expect(vc.Load(ctx, "three")).To(Succeed())
		Expect(vc.Frame(time.Now())).To(Succeed())

		for _, r := range []*render.Recorder{raster, labels} {
			f, ok := r.Last()
			Expect(ok).To(BeTrue())
			Expect(f.Spheres).To(Equal(3))
			Expect(f.Boxes).To(Equal(2))
			Expect(f.Labels).To(Equal(3))
		}
	})

	It("resizes both surfaces", func() {
		vc.Resize(120, 40)
		w, h := raster.Size()
		Expect([]int{w, h}).To(Equal([]int{120, 40}))
		w, h = labels.Size()
		Expect([]int{w, h}).To(Equal([]int{120, 40}))
	})

	It("sets the camera aspect from the raster's pixel grid", func() {
		vc.Resize(120, 40)
		Expect(vc.Frame(time.Now())).To(Succeed())
		f, _ := raster.Last()
		Expect(f.Aspect).To(BeNumerically("~", 3, 1e-9))

		cells := render.NewBraille(0, 0)
		bc := viewer.NewContext(cells, nil, opener.open, scene.DefaultParams())
		bc.Resize(80, 20)
		rec := render.NewRecorder()
		Expect(bc.Render(rec)).To(Succeed())
		f, _ = rec.Last()
		// 160×80 dots.
		Expect(f.Aspect).To(BeNumerically("~", 2, 1e-9))
	})

	It("spins with elapsed time", func() {
		start := time.Unix(0, 0)
		Expect(vc.Frame(start)).To(Succeed())
		Expect(vc.Frame(start.Add(time.Second))).To(Succeed())

		f, _ := raster.Last()
		Expect(f.Rotation.X).To(BeNumerically("~", 0.4, 1e-9))
		Expect(f.Rotation.Y).To(BeNumerically("~", 0.28, 1e-9))
	})

	It("holds the rotation while paused", func() {
		start := time.Unix(0, 0)
		Expect(vc.Frame(start)).To(Succeed())
		Expect(vc.TogglePause()).To(BeTrue())
		Expect(vc.Frame(start.Add(time.Second))).To(Succeed())
		f, _ := raster.Last()
		Expect(f.Rotation.X).To(Equal(0.0))

		Expect(vc.TogglePause()).To(BeFalse())
		Expect(vc.Frame(start.Add(1500 * time.Millisecond))).To(Succeed())
		f, _ = raster.Last()
		Expect(f.Rotation.X).To(BeNumerically("~", 0.2, 1e-9))
	})

	It("keeps the camera within the trackball limits", func() {
		vc.Dolly(100)
		Expect(vc.Distance()).To(BeNumerically("~", scene.MaxDistance, 1e-6))
		vc.Dolly(0.001)
		Expect(vc.Distance()).To(BeNumerically("~", scene.MinDistance, 1e-6))
		vc.Reset()
		Expect(vc.Distance()).To(BeNumerically("~", 1000, 1e-9))
	})

	It("leaves the view empty when a load fails", func() {
		Expect(vc.Load(ctx, "three")).To(Succeed())
		Expect(vc.Load(ctx, "missing")).NotTo(Succeed())
		Expect(vc.Snapshot().Len()).To(Equal(0))
	})

	It("discards a load overtaken by a newer one", func() {
		slowErr := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			slowErr <- vc.Load(ctx, "slow")
		}()
		Eventually(vc.Generation).Should(Equal(uint64(1)))

		Expect(vc.Load(ctx, "fast")).To(Succeed())
		close(opener.release)

		var err error
		Eventually(slowErr).Should(Receive(&err))
		Expect(errors.Is(err, viewer.ErrStale)).To(BeTrue())
		Expect(vc.Snapshot().Spheres()).To(Equal(2))
	})

	It("propagates surface errors", func() {
		boom := errors.New("boom")
		raster.Err = boom
		Expect(vc.Frame(time.Now())).To(MatchError(boom))
	})

	It("keeps separate contexts independent", func() {
		other := viewer.NewContext(nil, nil, opener.open, scene.DefaultParams())
		Expect(vc.Load(ctx, "three")).To(Succeed())
		Expect(other.Load(ctx, "fast")).To(Succeed())
		Expect(vc.Snapshot().Spheres()).To(Equal(3))
		Expect(other.Snapshot().Spheres()).To(Equal(2))
		Expect(other.Frame(time.Now())).To(Succeed())
	})

	It("renders onto any surface", func() {
		Expect(vc.Load(ctx, "three")).To(Succeed())
		target := render.NewRecorder()
		Expect(vc.Render(target)).To(Succeed())
		Expect(target.Frames()).To(HaveLen(1))
		Expect(vc.Render(nil)).To(MatchError(viewer.ErrNoSurface))
	})
})
