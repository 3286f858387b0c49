package contacts

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/soldatov-s/go-contacts/base"
	"github.com/soldatov-s/go-contacts/x/phone"
	"github.com/soldatov-s/go-contacts/x/stringsx"
	"github.com/soldatov-s/go-contacts/x/vcard"
)

const ServiceName = "contacts_service"

const (
	statusOK    = "ok"
	statusError = "error"
)

// unlock outlives the request context
const unlockTimeout = 3 * time.Second

type Service struct {
	*base.MetricsStorage
	store      Store
	notifier   Notifier
	locker     Locker
	encoder    *vcard.Encoder
	operations *prometheus.CounterVec
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLocker makes every write hold the lock.
func WithLocker(l Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

func WithExporter(e *vcard.Encoder) Option {
	return func(s *Service) {
		s.encoder = e
	}
}

func NewService(store Store, opts ...Option) (*Service, error) {
	s := &Service{
		MetricsStorage: base.NewMetricsStorage(),
		store:          store,
		encoder:        vcard.NewEncoder(),
	}

	for _, opt := range opts {
		opt(s)
	}

	var err error
	s.operations, err = s.GetMetrics().AddCounterVec(
		ServiceName, "operations total", "How many contacts operations were done.", []string{"operation", "status"})
	if err != nil {
		return nil, errors.Wrap(err, "add counter vec")
	}

	return s, nil
}

func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	logger := zerolog.Ctx(ctx).With().Str("service", ServiceName).Logger()
	return &logger
}

func (s *Service) count(operation string, err error) {
	status := statusOK
	if err != nil {
		status = statusError
	}
	s.operations.WithLabelValues(operation, status).Inc()
}

// List returns every contact ordered by name, case-insensitive.
func (s *Service) List(ctx context.Context) ([]Contact, error) {
	records, err := s.store.List(ctx)
	s.count("list", err)
	if err != nil {
		return nil, errors.Wrap(err, "list contacts")
	}

	result := make([]Contact, 0, len(records))
	for name, rec := range records {
		result = append(result, newContact(name, rec))
	}

	sort.SliceStable(result, func(i, j int) bool {
		li, lj := strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)
		if li != lj {
			return li < lj
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// Search returns contacts whose name contains query, ignoring case.
func (s *Service) Search(ctx context.Context, query string) ([]Contact, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return all, nil
	}

	result := make([]Contact, 0, len(all))
	for i := range all {
		if stringsx.ContainsFold(all[i].Name, query) {
			result = append(result, all[i])
		}
	}

	return result, nil
}

func (s *Service) Get(ctx context.Context, name string) (Contact, error) {
	name = strings.TrimSpace(name)
	rec, err := s.store.Get(ctx, name)
	s.count("get", err)
	if err != nil {
		return Contact{}, errors.Wrapf(err, "get contact %q", name)
	}

	return newContact(name, rec), nil
}

type SaveRequest struct {
	// OriginalName is the name of edited contact, empty for a new one.
	OriginalName string
	Name         string
	Phone        string
}

// Save creates or edits a contact. Name is the key, so renaming deletes
// the original record and puts a new one.
func (s *Service) Save(ctx context.Context, req *SaveRequest) (Contact, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Contact{}, ErrEmptyName
	}

	p, err := phone.Normalize(req.Phone)
	if err != nil {
		return Contact{}, errors.Wrap(err, "normalize phone")
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return Contact{}, err
	}
	defer unlock()

	rec := Record{Phone: p.Display}
	original := strings.TrimSpace(req.OriginalName)
	event := &Event{Type: EventSaved, Name: name, Phone: p.Display}

	if original == "" || original == name {
		err = s.store.Put(ctx, name, rec)
		s.count("put", err)
		if err != nil {
			return Contact{}, errors.Wrapf(err, "put contact %q", name)
		}
	} else {
		if err := s.rename(ctx, original, name, rec); err != nil {
			return Contact{}, err
		}
		event.Type = EventRenamed
		event.PreviousName = original
	}

	s.notify(ctx, event)

	return Contact{Name: name, Phone: p, Valid: true}, nil
}

func (s *Service) rename(ctx context.Context, from, to string, rec Record) error {
	if tx, ok := s.store.(Transactor); ok {
		err := tx.WithinTransaction(ctx, func(ctx context.Context, st Store) error {
			if err := st.Delete(ctx, from); err != nil {
				return errors.Wrapf(err, "delete contact %q", from)
			}
			if err := st.Put(ctx, to, rec); err != nil {
				return errors.Wrapf(err, "put contact %q", to)
			}
			return nil
		})
		s.count("rename", err)
		if err != nil {
			return errors.Wrap(err, "rename in transaction")
		}
		return nil
	}

	old, err := s.store.Get(ctx, from)
	if err != nil {
		s.count("rename", err)
		return errors.Wrapf(err, "get contact %q", from)
	}

	if err := s.store.Delete(ctx, from); err != nil {
		s.count("rename", err)
		return errors.Wrapf(err, "delete contact %q", from)
	}

	if err := s.store.Put(ctx, to, rec); err != nil {
		s.count("rename", err)
		if rbErr := s.store.Put(ctx, from, old); rbErr != nil {
			s.logger(ctx).Err(rbErr).Str("name", from).Msg("restore renamed contact")
		}
		return errors.Wrapf(err, "put contact %q", to)
	}

	s.count("rename", nil)

	return nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	err = s.store.Delete(ctx, name)
	s.count("delete", err)
	if err != nil {
		return errors.Wrapf(err, "delete contact %q", name)
	}

	s.notify(ctx, &Event{Type: EventDeleted, Name: name})

	return nil
}

// Export returns vCard for the selected names in name order. Nil names
// selects every contact.
func (s *Service) Export(ctx context.Context, names []string) (string, error) {
	all, err := s.List(ctx)
	if err != nil {
		return "", err
	}

	selected := all
	if names != nil {
		selected, err = selectContacts(all, names)
		if err != nil {
			return "", err
		}
	}

	cards := make([]vcard.Card, 0, len(selected))
	for i := range selected {
		cards = append(cards, vcard.Card{Name: selected[i].Name, RawPhone: selected[i].Phone.Raw})
	}

	data, err := s.encoder.Encode(cards)
	s.count("export", err)
	if err != nil {
		return "", errors.Wrap(err, "encode vcard")
	}

	return data, nil
}

func selectContacts(all []Contact, names []string) ([]Contact, error) {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[strings.TrimSpace(n)] = struct{}{}
	}

	result := make([]Contact, 0, len(wanted))
	for i := range all {
		if _, ok := wanted[all[i].Name]; ok {
			result = append(result, all[i])
			delete(wanted, all[i].Name)
		}
	}

	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for n := range wanted {
			missing = append(missing, n)
		}
		sort.Strings(missing)
		return nil, errors.Wrapf(ErrNotFound, "contacts %s", strings.Join(missing, ", "))
	}

	return result, nil
}

func (s *Service) lock(ctx context.Context) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}

	if err := s.locker.Lock(ctx); err != nil {
		return nil, errors.Wrap(err, "lock contacts")
	}

	return func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()

		if err := s.locker.Unlock(unlockCtx); err != nil {
			s.logger(ctx).Err(err).Msg("unlock contacts")
		}
	}, nil
}

func (s *Service) notify(ctx context.Context, event *Event) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger(ctx).Err(err).
			Str("event", string(event.Type)).
			Str("name", event.Name).
			Msg("notify contact change")
	}
}
