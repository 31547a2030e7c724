package test_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/mock/gomock"
	"github.com/loopcontext/localecat"
	mock_localecat "github.com/loopcontext/localecat/test/mock"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type mockObserver struct {
	mu           sync.Mutex
	loadFailures []string
	fallbacks    []string
	missing      []string
	formatIssues []string
}

func (o *mockObserver) OnLoadFailure(locale string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loadFailures = append(o.loadFailures, locale)
}

func (o *mockObserver) OnLookupFallback(fromLocale string, atLocale string, id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks = append(o.fallbacks, fromLocale+"->"+atLocale)
}

func (o *mockObserver) OnMessageMissing(locale string, id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.missing = append(o.missing, locale+":"+id)
}

func (o *mockObserver) OnFormatIssue(locale string, id string, issue string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.formatIssues = append(o.formatIssues, locale+":"+id+":"+issue)
}

func newCatalog(clean bool, observer localecat.CatalogObserver) localecat.LocaleCatalog {
	catalog, err := localecat.NewLocaleCatalog(localecat.Config{
		Locales:       []string{"en", "es", "es-AR"},
		DefaultLocale: "en",
		Fallbacks:     map[string][]string{"es-AR": {"es"}},
		Source:        "./resources",
		Files:         []string{"messages.yaml"},
		Clean:         clean,
		Observer:      observer,
	})
	Expect(err).NotTo(HaveOccurred())
	return catalog
}

var _ = Describe("Locale Catalog", func() {
	var catalog localecat.LocaleCatalog
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		catalog = newCatalog(false, nil)
	})

	It("should load the default locale when none is given", func() {
		loaded, err := catalog.Load(ctx, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())
		Expect(catalog.CurrentLocale()).To(Equal("en"))
	})

	It("should serve a message from the current locale's own bundle", func() {
		loaded, err := catalog.Load(ctx, "es-AR")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())

		msg, found := catalog.GetMessage("greeting", map[string]any{"Name": "Ana"}, nil)
		Expect(found).To(BeTrue())
		Expect(msg).To(Equal("Hola Ana, che"))
	})

	It("should cascade through fallbacks to the default locale", func() {
		loaded, err := catalog.Load(ctx, "es-AR")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())

		msg, found := catalog.GetMessage("only.spanish", nil, nil)
		Expect(found).To(BeTrue())
		Expect(msg).To(Equal("Solo en español"))

		msg, found = catalog.GetMessage("only.default", nil, nil)
		Expect(found).To(BeTrue())
		Expect(msg).To(Equal("Default only"))

		_, found = catalog.GetMessage("only.nowhere", nil, nil)
		Expect(found).To(BeFalse())
	})

	It("should treat an empty-valued message as found", func() {
		loaded, err := catalog.Load(ctx, "en")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())

		msg, found := catalog.GetMessage("empty.note", nil, nil)
		Expect(found).To(BeTrue())
		Expect(msg).To(Equal(""))
		Expect(catalog.HasMessage("empty.note")).To(BeTrue())
	})

	It("should pluralize through the bundle formatter", func() {
		loaded, err := catalog.Load(ctx, "en")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())

		one, found := catalog.GetMessage("items", map[string]any{"Count": 1}, nil)
		Expect(found).To(BeTrue())
		Expect(one).To(Equal("You have 1 item"))

		many, found := catalog.GetMessage("items", map[string]any{"Count": 3}, nil)
		Expect(found).To(BeTrue())
		Expect(many).To(Equal("You have 3 items"))
	})

	It("should not fetch anything for an unsupported locale", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()
		backend := mock_localecat.NewMockResourceBackend(ctrl)
		// No EXPECT calls: any fetch fails the spec.

		mocked, err := localecat.NewLocaleCatalog(localecat.Config{
			Locales:       []string{"en"},
			DefaultLocale: "en",
			Files:         []string{"messages.yaml"},
			Transport:     backend,
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = mocked.Load(ctx, "fr")
		Expect(err).To(BeAssignableToTypeOf(&localecat.UnsupportedLocaleError{}))
	})

	It("should keep earlier bundles under the accumulate policy", func() {
		loaded, err := catalog.Load(ctx, "es")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())

		loaded, err = catalog.Load(ctx, "en")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())

		Expect(catalog.CurrentLocale()).To(Equal("en"))
		Expect(catalog.BundleFor("es")).NotTo(BeNil())
		Expect(catalog.BundleFor("es").Format("only.spanish", nil, nil)).To(Equal("Solo en español"))
	})

	It("should drop earlier bundles under the clean policy", func() {
		cleanCatalog := newCatalog(true, nil)

		loaded, err := cleanCatalog.Load(ctx, "es")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())

		loaded, err = cleanCatalog.Load(ctx, "en")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())

		Expect(cleanCatalog.BundleFor("es")).To(BeNil())
	})

	It("should expose loads performed through one handle on its clones", func() {
		clone := catalog.Clone()

		loaded, err := catalog.Load(ctx, "es")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())

		Expect(clone.CurrentLocale()).To(Equal("es"))
		msg, found := clone.GetMessage("farewell", nil, nil)
		Expect(found).To(BeTrue())
		Expect(msg).To(Equal("Adiós"))
	})

	It("should notify the observer about fallbacks and misses", func() {
		observer := &mockObserver{}
		observed := newCatalog(false, observer)
		defer func() { _ = localecat.Close(observed) }()

		loaded, err := observed.Load(ctx, "es-AR")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())

		_, found := observed.GetMessage("only.spanish", nil, nil)
		Expect(found).To(BeTrue())
		_, found = observed.GetMessage("only.nowhere", nil, nil)
		Expect(found).To(BeFalse())

		Eventually(func() []string {
			observer.mu.Lock()
			defer observer.mu.Unlock()
			return append([]string(nil), observer.fallbacks...)
		}).Should(ContainElement("es-AR->es"))
		Eventually(func() []string {
			observer.mu.Lock()
			defer observer.mu.Unlock()
			return append([]string(nil), observer.missing...)
		}).Should(ContainElement("es-AR:only.nowhere"))

		stats, err := localecat.SnapshotStats(observed)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.LookupFallbacks).To(HaveKey("es-AR->es"))
		Expect(stats.MissingMessages).To(HaveKey("es-AR:only.nowhere"))
	})

	It("should be safe under concurrent lookups and loads", func() {
		loaded, err := catalog.Load(ctx, "es-AR")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeTrue())

		const (
			readers     = 12
			readerIters = 200
			loaderIters = 20
		)

		errCh := make(chan error, readers+loaderIters)
		var wg sync.WaitGroup

		for i := 0; i < readers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < readerIters; j++ {
					msg, found := catalog.GetMessage("greeting", map[string]any{"Name": "Ana"}, nil)
					if !found || msg == "" {
						errCh <- fmt.Errorf("lookup lost the greeting message")
						return
					}
				}
			}()
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			locales := []string{"es", "en", "es-AR"}
			for i := 0; i < loaderIters; i++ {
				loaded, err := catalog.Load(ctx, locales[i%len(locales)])
				if err != nil || !loaded {
					errCh <- fmt.Errorf("load failed: loaded=%v err=%v", loaded, err)
					return
				}
			}
		}()

		wg.Wait()
		close(errCh)
		for err := range errCh {
			Expect(err).NotTo(HaveOccurred())
		}
	})
})
