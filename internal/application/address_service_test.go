package application

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/adiprasetyo/evently-api/internal/domain/entity"
	repo "github.com/adiprasetyo/evently-api/internal/domain/repository"
)

// memAddressRepo is an in-memory AddressRepository preserving insertion order.
type memAddressRepo struct {
	seq   int
	items []*entity.Address

	createErr error
}

func (m *memAddressRepo) Create(_ context.Context, a *entity.Address) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	a.ID = "addr-" + strconv.Itoa(m.seq)
	cp := *a
	m.items = append(m.items, &cp)
	return nil
}

func (m *memAddressRepo) GetByID(_ context.Context, id string) (*entity.Address, error) {
	for _, a := range m.items {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memAddressRepo) ListByUser(_ context.Context, userID string) ([]entity.Address, error) {
	out := []entity.Address{}
	for _, a := range m.items {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memAddressRepo) Update(_ context.Context, in *entity.Address) error {
	for _, a := range m.items {
		if a.ID == in.ID {
			*a = *in
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memAddressRepo) Delete(_ context.Context, id string) error {
	for i, a := range m.items {
		if a.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func newAddressService(r repo.AddressRepository) *AddressService {
	return NewAddressService(r, nil, "", nil)
}

var (
	principalA = &Principal{ID: "user-a", Name: "Alice", Email: "alice@example.com"}
	principalB = &Principal{ID: "user-b", Name: "Bob", Email: "bob@example.com"}
)

func validInput() AddressInput {
	return AddressInput{
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		Country: "US",
		ZipCode: "62704",
	}
}

func TestAddressCreateAndList(t *testing.T) {
	svc := newAddressService(&memAddressRepo{})
	ctx := context.Background()

	created, err := svc.Create(ctx, principalA, validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}
	if created.UserID != principalA.ID {
		t.Fatalf("owner = %q, want %q", created.UserID, principalA.ID)
	}

	got, err := svc.List(ctx, principalA)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("List returned %d addresses, want 1", len(got))
	}
	if got[0].Street != "1 Main St" || got[0].City != "Springfield" || got[0].State != "IL" ||
		got[0].Country != "US" || got[0].ZipCode != "62704" {
		t.Fatalf("listed address fields do not match created: %+v", got[0])
	}
}

func TestAddressCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AddressInput)
		missing []string
	}{
		{"missing street", func(in *AddressInput) { in.Street = "" }, []string{"street"}},
		{"missing city", func(in *AddressInput) { in.City = "  " }, []string{"city"}},
		{"missing zip", func(in *AddressInput) { in.ZipCode = "" }, []string{"zipCode"}},
		{
			"all missing",
			func(in *AddressInput) { *in = AddressInput{} },
			[]string{"street", "city", "state", "country", "zipCode"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &memAddressRepo{}
			svc := newAddressService(r)

			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), principalA, in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Fields) != len(tt.missing) {
				t.Fatalf("missing fields = %v, want %v", verr.Fields, tt.missing)
			}
			for i, f := range tt.missing {
				if verr.Fields[i] != f {
					t.Fatalf("missing fields = %v, want %v", verr.Fields, tt.missing)
				}
			}
			if len(r.items) != 0 {
				t.Fatal("validation failure must not persist anything")
			}
		})
	}
}

func TestAddressRequiresPrincipal(t *testing.T) {
	svc := newAddressService(&memAddressRepo{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, nil, validInput()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Create without principal: got %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.List(ctx, nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("List without principal: got %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.Update(ctx, nil, "addr-1", validInput()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Update without principal: got %v, want ErrUnauthenticated", err)
	}
	if err := svc.Delete(ctx, nil, "addr-1"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Delete without principal: got %v, want ErrUnauthenticated", err)
	}
}

func TestAddressOwnershipIsolation(t *testing.T) {
	svc := newAddressService(&memAddressRepo{})
	ctx := context.Background()

	created, err := svc.Create(ctx, principalA, validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// B never sees A's address.
	got, err := svc.List(ctx, principalB)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("B's list contains %d addresses, want 0", len(got))
	}

	// B's mutations fail with the merged outcome, indistinguishable from a
	// nonexistent id.
	other := validInput()
	other.Street = "99 Other St"
	if _, err := svc.Update(ctx, principalB, created.ID, other); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("B updating A's address: got %v, want ErrAddressNotFound", err)
	}
	if err := svc.Delete(ctx, principalB, created.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("B deleting A's address: got %v, want ErrAddressNotFound", err)
	}
	if _, err := svc.Update(ctx, principalB, "no-such-id", other); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("B updating missing id: got %v, want ErrAddressNotFound", err)
	}

	// A's copy is untouched.
	mine, err := svc.List(ctx, principalA)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(mine) != 1 || mine[0].Street != "1 Main St" {
		t.Fatalf("A's address changed after B's failed mutations: %+v", mine)
	}
}

func TestAddressOwnershipCheckedBeforeValidation(t *testing.T) {
	svc := newAddressService(&memAddressRepo{})
	ctx := context.Background()

	created, err := svc.Create(ctx, principalA, validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Empty fields from the wrong owner must surface the merged outcome, not
	// a validation error that leaks existence.
	_, err = svc.Update(ctx, principalB, created.ID, AddressInput{})
	if !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("got %v, want ErrAddressNotFound", err)
	}

	// The owner with empty fields gets the validation error.
	_, err = svc.Update(ctx, principalA, created.ID, AddressInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("owner update with empty fields: got %v, want ValidationError", err)
	}
}

func TestAddressUpdateIdempotent(t *testing.T) {
	svc := newAddressService(&memAddressRepo{})
	ctx := context.Background()

	created, err := svc.Create(ctx, principalA, validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	in := AddressInput{Street: "2 Oak Ave", City: "Shelbyville", State: "IL", Country: "US", ZipCode: "62565"}
	first, err := svc.Update(ctx, principalA, created.ID, in)
	if err != nil {
		t.Fatalf("first Update returned error: %v", err)
	}
	second, err := svc.Update(ctx, principalA, created.ID, in)
	if err != nil {
		t.Fatalf("second Update returned error: %v", err)
	}

	if first.Street != second.Street || first.City != second.City || first.State != second.State ||
		first.Country != second.Country || first.ZipCode != second.ZipCode {
		t.Fatalf("repeated update changed fields: %+v vs %+v", first, second)
	}

	got, _ := svc.List(ctx, principalA)
	if len(got) != 1 || got[0].Street != "2 Oak Ave" {
		t.Fatalf("stored address = %+v, want full replace applied once", got)
	}
}

func TestAddressDeleteNotIdempotent(t *testing.T) {
	svc := newAddressService(&memAddressRepo{})
	ctx := context.Background()

	created, err := svc.Create(ctx, principalA, validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(ctx, principalA, created.ID); err != nil {
		t.Fatalf("first Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, principalA, created.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("second Delete: got %v, want ErrAddressNotFound", err)
	}

	got, _ := svc.List(ctx, principalA)
	if len(got) != 0 {
		t.Fatalf("address still listed after delete: %+v", got)
	}
}

func TestAddressCreateUpstreamError(t *testing.T) {
	svc := newAddressService(&memAddressRepo{createErr: errors.New("connection reset")})

	_, err := svc.Create(context.Background(), principalA, validInput())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("got %v, want ErrUpstream", err)
	}
}
