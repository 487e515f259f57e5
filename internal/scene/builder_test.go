package scene_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/scene"
)

func ethanol() *molecule.Molecule {
	red := molecule.ColorFromHex(0xff0d0d)
	grey := molecule.ColorFromHex(0x909090)
	m := &molecule.Molecule{Name: "ethanol", Atoms: []molecule.Atom{
		{Element: "C", Position: molecule.Vec3{X: -1.2, Y: 0.1}, Color: grey},
		{Element: "C", Position: molecule.Vec3{X: 0.3, Y: -0.2}, Color: grey},
		{Element: "O", Position: molecule.Vec3{X: 1.0, Y: 1.0, Z: 0.2}, Color: red},
	}}
	Expect(m.AddBond(0, 1)).To(Succeed())
	Expect(m.AddBond(1, 2)).To(Succeed())
	return m
}

var _ = Describe("Build", func() {
	var (
		g *scene.Group
		m *molecule.Molecule
		p scene.Params
	)

	BeforeEach(func() {
		g = scene.NewGroup()
		m = ethanol()
		p = scene.DefaultParams()
	})

	It("creates a sphere and a label per atom and a box per bond", func() {
		Expect(scene.Build(g, m, p)).To(Succeed())
		Expect(g.Spheres()).To(Equal(3))
		Expect(g.Labels).To(HaveLen(3))
		Expect(g.Boxes()).To(Equal(2))
		Expect(g.Len()).To(Equal(8))
	})

	It("centres the atoms on the origin", func() {
		Expect(scene.Build(g, m, p)).To(Succeed())
		var sum molecule.Vec3
		for _, mesh := range g.Meshes {
			if mesh.Shape == scene.Sphere {
				sum = sum.Add(mesh.Position)
			}
		}
		Expect(sum.Length()).To(BeNumerically("<", 1e-9))
	})

	It("labels atoms with their element in the atom colour", func() {
		Expect(scene.Build(g, m, p)).To(Succeed())
		Expect(g.Labels[2].Text).To(Equal("O"))
		Expect(g.Labels[2].Color).To(Equal(m.Atoms[2].Color))
		Expect(g.Labels[2].Position).To(Equal(g.Meshes[2].Position))
	})

	It("sizes spheres by the atom radius", func() {
		Expect(scene.Build(g, m, p)).To(Succeed())
		Expect(g.Meshes[0].Scale).To(Equal(molecule.Vec3{X: 25, Y: 25, Z: 25}))
	})

	It("stretches each connector over the scaled bond", func() {
		Expect(scene.Build(g, m, p)).To(Succeed())
		bond := g.Meshes[3]
		Expect(bond.Shape).To(Equal(scene.Box))
		Expect(bond.Color).To(Equal(molecule.White))
		Expect(bond.Scale.X).To(Equal(5.0))
		want := m.Bonds[0].Length() * 75
		Expect(bond.Scale.Z).To(BeNumerically("~", want, 1e-9))

		// Local +Z must point along the bond.
		dir := bond.Rotation.Rotate(molecule.Vec3{Z: 1})
		bondDir := m.Bonds[0].End.Sub(m.Bonds[0].Start).Normalize()
		Expect(dir.Dot(bondDir)).To(BeNumerically("~", 1, 1e-9))
	})

	It("is idempotent", func() {
		Expect(scene.Build(g, m, p)).To(Succeed())
		first := g.Clone()
		Expect(scene.Build(g, m, p)).To(Succeed())
		Expect(g.Meshes).To(Equal(first.Meshes))
		Expect(g.Labels).To(Equal(first.Labels))
	})

	It("leaves the group empty for an empty molecule", func() {
		Expect(scene.Build(g, m, p)).To(Succeed())
		err := scene.Build(g, &molecule.Molecule{}, p)
		Expect(errors.Is(err, molecule.ErrNoAtoms)).To(BeTrue())
		Expect(g.Len()).To(Equal(0))

		Expect(scene.Build(g, nil, p)).To(MatchError(molecule.ErrNoAtoms))
	})
})

var _ = Describe("Load", func() {
	It("builds whatever the open function returns", func() {
		g := scene.NewGroup()
		open := func(ctx context.Context, source string) (*molecule.Molecule, error) {
			Expect(source).To(Equal("ethanol.pdb"))
			return ethanol(), nil
		}
		Expect(scene.Load(context.Background(), g, "ethanol.pdb", open, scene.DefaultParams())).To(Succeed())
		Expect(g.Spheres()).To(Equal(3))
	})

	It("keeps the group empty when opening fails", func() {
		g := scene.NewGroup()
		Expect(scene.Build(g, ethanol(), scene.DefaultParams())).To(Succeed())

		boom := errors.New("boom")
		open := func(context.Context, string) (*molecule.Molecule, error) { return nil, boom }
		err := scene.Load(context.Background(), g, "missing.pdb", open, scene.DefaultParams())
		Expect(err).To(MatchError(boom))
		Expect(g.Len()).To(Equal(0))
	})

	It("gives up when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		block := make(chan struct{})
		defer close(block)
		open := func(context.Context, string) (*molecule.Molecule, error) {
			<-block
			return &molecule.Molecule{}, nil
		}
		err := scene.Load(ctx, scene.NewGroup(), "slow.pdb", open, scene.DefaultParams())
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Camera", func() {
	It("clamps the dolly distance", func() {
		c := scene.NewCamera(1)
		Expect(c.Distance()).To(Equal(1000.0))
		c.Dolly(10)
		Expect(c.Distance()).To(BeNumerically("~", scene.MaxDistance, 1e-9))
		c.Dolly(0.01)
		Expect(c.Distance()).To(BeNumerically("~", scene.MinDistance, 1e-9))
	})

	It("keeps its distance while orbiting", func() {
		c := scene.NewCamera(1)
		c.Orbit(0.3, 0.2)
		Expect(c.Distance()).To(BeNumerically("~", 1000, 1e-6))
		Expect(math.Abs(c.Position.X)).To(BeNumerically(">", 0))
	})
})
