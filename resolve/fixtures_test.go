package resolve_test

import (
	"errors"
	"reflect"

	"github.com/forgekit/forge/resolve"
	"github.com/forgekit/forge/resolve/internal/fixture"
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Repo is the canonical collaborator interface used across the tests.
type Repo interface {
	Find(id string) string
}

// AuditRepo narrows Repo; implementers of it are dominated during Repo
// scans.
type AuditRepo interface {
	Repo
	Audit() []string
}

// Flusher is a second registered interface used by the
// exactly-one-interface tie-break tests.
type Flusher interface {
	Flush() error
}

type SqlRepo struct{ DSN string }

func (r *SqlRepo) Find(string) string { return "sql" }

func NewSqlRepo() *SqlRepo { return &SqlRepo{DSN: "sqlite://"} }

type internalRepo struct{}

func (*internalRepo) Find(string) string { return "internal" }

type MemRepo struct{}

func (*MemRepo) Find(string) string { return "mem" }

type FileRepo struct{}

func (*FileRepo) Find(string) string { return "file" }

type AuditedRepo struct{}

func (*AuditedRepo) Find(string) string { return "audited" }
func (*AuditedRepo) Audit() []string    { return nil }

// DualRepo implements both Repo and Flusher, so it loses the
// exactly-one-interface tie-break against MemRepo.
type DualRepo struct{}

func (*DualRepo) Find(string) string { return "dual" }
func (*DualRepo) Flush() error       { return nil }

// Feed has an enumerable shape (a method returning a slice), which makes
// irreducible ties pick the first registered implementer.
type Feed interface {
	Items() []string
}

type ArchiveFeed struct{}

func (*ArchiveFeed) Items() []string { return []string{"archive"} }

type LiveFeed struct{}

func (*LiveFeed) Items() []string { return []string{"live"} }

// Porter implementation living outside the interface's package; loses the
// same-package tie-break against fixture.RailPorter.
type TruckPorter struct{}

func (TruckPorter) Carry(int) bool { return false }

// Courier implementations: the one sharing the interface's simple name
// wins the name tie-break.
type Courier struct{}

func (Courier) Deliver() string { return "courier" }

type FastCourier struct{}

func (FastCourier) Deliver() string { return "fast" }

// Construction fixtures.

type Gadget struct{ Serial string }

func NewGadget() *Gadget { return &Gadget{Serial: "g-1"} }

type Widget struct{ Gadget *Gadget }

func NewWidget(g *Gadget) *Widget { return &Widget{Gadget: g} }

var errFaulty = errors.New("faulty unit")

type Faulty struct{}

func NewFaulty() (*Faulty, error) { return nil, errFaulty }

// Device has the classic ()/(*Gadget)/(*Gadget,*Widget) constructor ladder.
type Device struct {
	Gadget *Gadget
	Widget *Widget
	Built  string
}

func NewDevice() *Device { return &Device{Built: "bare"} }

func NewDeviceWithGadget(g *Gadget) *Device {
	return &Device{Gadget: g, Built: "gadget"}
}

func NewDeviceFull(g *Gadget, w *Widget) *Device {
	return &Device{Gadget: g, Widget: w, Built: "full"}
}

// Rig only has the two-parameter constructor, so explicit-arguments mode
// must fill the trailing parameter.
type Rig struct {
	Gadget *Gadget
	Widget *Widget
}

func NewRig(g *Gadget, w *Widget) *Rig { return &Rig{Gadget: g, Widget: w} }

// Console falls back from the faulty ladder rung.
type Console struct {
	Gadget *Gadget
	Faulty *Faulty
	Built  string
}

func NewConsole() *Console { return &Console{Built: "bare"} }

func NewConsoleWithGadget(g *Gadget) *Console {
	return &Console{Gadget: g, Built: "gadget"}
}

func NewConsoleFull(g *Gadget, f *Faulty) *Console {
	return &Console{Gadget: g, Faulty: f, Built: "full"}
}

// secretBox is only constructible through a non-public constructor.
type secretBox struct{ opened bool }

func newSecretBox() *secretBox { return &secretBox{opened: true} }

// Node's only constructor requires another Node: the direct
// self-reference guard must reject it outright.
type Node struct{ Next *Node }

func NewNode(next *Node) *Node { return &Node{Next: next} }

// Chain has a self-referential constructor and a plain one; only the
// plain one is viable.
type Chain struct{ Built string }

func NewChain() *Chain { return &Chain{Built: "plain"} }

func NewChainLinked(prev *Chain) *Chain { return &Chain{Built: "linked"} }

// Ping and Pong form an indirect cycle.
type Ping struct{ Pong *Pong }

func NewPing(p *Pong) *Ping { return &Ping{Pong: p} }

type Pong struct{ Ping *Ping }

func NewPong(p *Ping) *Pong { return &Pong{Ping: p} }

// CheckoutService depends on the Repo collaborator interface.
type CheckoutService struct{ Repo Repo }

func NewCheckoutService(r Repo) *CheckoutService { return &CheckoutService{Repo: r} }

// Holder exercises injectable-member population.
type Holder struct {
	Repo  Repo    `forge:"inject"`
	Plain *Gadget `forge:"inject"`
	Bare  *Gadget
}

func NewHolder() *Holder { return &Holder{} }

// Plain has no registered constructor anywhere; the implicit zero-value
// constructor builds it.
type Plain struct{ X int }

// newUniverse registers the full fixture world in a stable order.
func newUniverse() *resolve.Universe {
	u := resolve.NewUniverse()
	mustRegister(resolve.RegisterInterface[Repo](u))
	mustRegister(resolve.RegisterInterface[AuditRepo](u))
	mustRegister(resolve.RegisterInterface[Flusher](u))
	mustRegister(u.RegisterConstructor(NewSqlRepo))
	mustRegister(u.RegisterType((*internalRepo)(nil)))
	mustRegister(u.RegisterConstructor(NewGadget))
	mustRegister(u.RegisterConstructor(NewWidget))
	mustRegister(u.RegisterConstructor(NewFaulty))
	mustRegister(u.RegisterConstructor(NewDevice))
	mustRegister(u.RegisterConstructor(NewDeviceWithGadget))
	mustRegister(u.RegisterConstructor(NewDeviceFull))
	mustRegister(u.RegisterConstructor(NewRig))
	mustRegister(u.RegisterConstructor(NewConsole))
	mustRegister(u.RegisterConstructor(NewConsoleWithGadget))
	mustRegister(u.RegisterConstructor(NewConsoleFull))
	mustRegister(u.RegisterConstructor(newSecretBox))
	mustRegister(u.RegisterConstructor(NewNode))
	mustRegister(u.RegisterConstructor(NewChain))
	mustRegister(u.RegisterConstructor(NewChainLinked))
	mustRegister(u.RegisterConstructor(NewPing))
	mustRegister(u.RegisterConstructor(NewPong))
	mustRegister(u.RegisterConstructor(NewCheckoutService))
	mustRegister(u.RegisterConstructor(NewHolder))
	mustRegister(u.RegisterConstructor(fixture.NewParcel))
	mustRegister(u.RegisterConstructor(fixture.NewDepot))
	return u
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
