// Package storetest holds the behaviour every repository.Store must share.
package storetest

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	model "github.com/zdziszkee/swift-directory/internal/models"
	repository "github.com/zdziszkee/swift-directory/internal/repositories"
)

// DescribeContract registers the store contract specs. newStore is called
// before every spec and must return an empty store.
func DescribeContract(name string, newStore func() repository.Store) bool {
	return Describe(name+" store contract", func() {
		var (
			ctx   context.Context
			store repository.Store
		)

		us := &model.Country{ISO2Code: "US", Name: "United States", TimeZone: "America/New_York"}
		hq := &model.SwiftBank{SwiftCode: "AAAAUS33XXX", BankName: "Test Bank", Address: "1 Main St", TownName: "NYC", CountryISO2: "US", IsHeadquarter: true}
		branch := &model.SwiftBank{SwiftCode: "AAAAUS33ABC", BankName: "Test Bank Branch", Address: "2 Main St", TownName: "NYC", CountryISO2: "US"}
		other := &model.SwiftBank{SwiftCode: "AAAAUS34XXX", BankName: "Other Bank", Address: "3 Main St", TownName: "NYC", CountryISO2: "US", IsHeadquarter: true}
		dangling := &model.SwiftBank{SwiftCode: "AAAAUS33DEF", BankName: "Lost Branch", CountryISO2: "PL"}

		BeforeEach(func() {
			ctx = context.Background()
			store = newStore()
		})

		seed := func() {
			_, err := store.Countries().UpsertCountries(ctx, []*model.Country{us})
			Expect(err).NotTo(HaveOccurred())
			_, err = store.SwiftBanks().UpsertBatch(ctx, []*model.SwiftBank{hq, branch, other, dangling})
			Expect(err).NotTo(HaveOccurred())
		}

		Describe("countries", func() {
			It("should keep the first written country", func() {
				inserted, err := store.Countries().UpsertCountries(ctx, []*model.Country{us})
				Expect(err).NotTo(HaveOccurred())
				Expect(inserted).To(BeEquivalentTo(1))

				inserted, err = store.Countries().UpsertCountries(ctx, []*model.Country{{ISO2Code: "US", Name: "Renamed"}})
				Expect(err).NotTo(HaveOccurred())
				Expect(inserted).To(BeEquivalentTo(0))

				name, err := store.Countries().FindNameByISO2(ctx, "US")
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(Equal("United States"))
			})

			It("should report unknown countries as not found", func() {
				_, err := store.Countries().FindNameByISO2(ctx, "ZZ")
				Expect(err).To(MatchError(repository.ErrNotFound))
			})
		})

		Describe("banks", func() {
			It("should join a bank with its country", func() {
				seed()
				details, err := store.SwiftBanks().FindByCodeWithCountry(ctx, "AAAAUS33XXX")
				Expect(err).NotTo(HaveOccurred())
				Expect(*details).To(Equal(model.SwiftCodeDetails{
					SwiftCode:     "AAAAUS33XXX",
					BankName:      "Test Bank",
					Address:       "1 Main St",
					CountryISO2:   "US",
					CountryName:   "United States",
					IsHeadquarter: true,
				}))
			})

			It("should hide banks whose country is missing", func() {
				seed()
				_, err := store.SwiftBanks().FindByCodeWithCountry(ctx, "AAAAUS33DEF")
				Expect(err).To(MatchError(repository.ErrNotFound))

				exists, err := store.SwiftBanks().ExistsByCode(ctx, "AAAAUS33DEF")
				Expect(err).NotTo(HaveOccurred())
				Expect(exists).To(BeTrue())
			})

			It("should report absent codes as not found", func() {
				_, err := store.SwiftBanks().FindByCodeWithCountry(ctx, "NOPENOPEXXX")
				Expect(err).To(MatchError(repository.ErrNotFound))
			})

			It("should keep the first written bank on upsert", func() {
				seed()
				inserted, err := store.SwiftBanks().UpsertBatch(ctx, []*model.SwiftBank{{SwiftCode: "AAAAUS33XXX", BankName: "Changed", CountryISO2: "US"}})
				Expect(err).NotTo(HaveOccurred())
				Expect(inserted).To(BeEquivalentTo(0))

				details, err := store.SwiftBanks().FindByCodeWithCountry(ctx, "AAAAUS33XXX")
				Expect(err).NotTo(HaveOccurred())
				Expect(details.BankName).To(Equal("Test Bank"))
			})

			It("should overwrite on save", func() {
				seed()
				Expect(store.SwiftBanks().Save(ctx, &model.SwiftBank{SwiftCode: "AAAAUS33XXX", BankName: "Changed", CountryISO2: "US"})).To(Succeed())

				details, err := store.SwiftBanks().FindByCodeWithCountry(ctx, "AAAAUS33XXX")
				Expect(err).NotTo(HaveOccurred())
				Expect(details.BankName).To(Equal("Changed"))
				Expect(details.IsHeadquarter).To(BeFalse())
			})

			It("should delete once and then report not found", func() {
				seed()
				Expect(store.SwiftBanks().DeleteByCode(ctx, "AAAAUS33ABC")).To(Succeed())
				Expect(store.SwiftBanks().DeleteByCode(ctx, "AAAAUS33ABC")).To(MatchError(repository.ErrNotFound))

				exists, err := store.SwiftBanks().ExistsByCode(ctx, "AAAAUS33ABC")
				Expect(err).NotTo(HaveOccurred())
				Expect(exists).To(BeFalse())
			})
		})

		Describe("branches", func() {
			It("should list codes sharing the prefix except the code itself", func() {
				seed()
				branches, err := store.SwiftBanks().FindBranchesByPrefix(ctx, "AAAAUS33XXX")
				Expect(err).NotTo(HaveOccurred())
				Expect(branches).To(Equal([]model.Branch{{
					SwiftCode:   "AAAAUS33ABC",
					BankName:    "Test Bank Branch",
					Address:     "2 Main St",
					CountryISO2: "US",
				}}))
			})

			It("should return an empty list when there are no branches", func() {
				seed()
				branches, err := store.SwiftBanks().FindBranchesByPrefix(ctx, "AAAAUS34XXX")
				Expect(err).NotTo(HaveOccurred())
				Expect(branches).NotTo(BeNil())
				Expect(branches).To(BeEmpty())
			})

			It("should compare prefixes by character for multi-byte codes", func() {
				_, err := store.Countries().UpsertCountries(ctx, []*model.Country{us})
				Expect(err).NotTo(HaveOccurred())
				_, err = store.SwiftBanks().UpsertBatch(ctx, []*model.SwiftBank{
					{SwiftCode: "ÄAAAUS33XXX", BankName: "Umlaut Bank", CountryISO2: "US", IsHeadquarter: true},
					{SwiftCode: "ÄAAAUS34ABC", BankName: "Other Umlaut Bank", CountryISO2: "US"},
					{SwiftCode: "ÄAAAUS33ABC", BankName: "Umlaut Bank Branch", CountryISO2: "US"},
				})
				Expect(err).NotTo(HaveOccurred())

				branches, err := store.SwiftBanks().FindBranchesByPrefix(ctx, "ÄAAAUS33XXX")
				Expect(err).NotTo(HaveOccurred())
				Expect(branches).To(Equal([]model.Branch{{
					SwiftCode:   "ÄAAAUS33ABC",
					BankName:    "Umlaut Bank Branch",
					CountryISO2: "US",
				}}))
			})
		})

		Describe("country listing", func() {
			It("should list every bank of the country without a join", func() {
				seed()
				banks, err := store.SwiftBanks().FindAllByCountry(ctx, "PL")
				Expect(err).NotTo(HaveOccurred())
				Expect(banks).To(HaveLen(1))
				Expect(banks[0].SwiftCode).To(Equal("AAAAUS33DEF"))

				banks, err = store.SwiftBanks().FindAllByCountry(ctx, "US")
				Expect(err).NotTo(HaveOccurred())
				Expect(banks).To(HaveLen(3))
			})

			It("should return an empty list for a country without banks", func() {
				banks, err := store.SwiftBanks().FindAllByCountry(ctx, "DE")
				Expect(err).NotTo(HaveOccurred())
				Expect(banks).NotTo(BeNil())
				Expect(banks).To(BeEmpty())
			})
		})

		Describe("ReadSnapshot", func() {
			It("should expose the same data inside the snapshot", func() {
				seed()
				err := store.ReadSnapshot(ctx, func(snap repository.Store) error {
					name, err := snap.Countries().FindNameByISO2(ctx, "US")
					Expect(err).NotTo(HaveOccurred())
					Expect(name).To(Equal("United States"))

					branches, err := snap.SwiftBanks().FindBranchesByPrefix(ctx, "AAAAUS33XXX")
					Expect(err).NotTo(HaveOccurred())
					Expect(branches).To(HaveLen(1))
					return nil
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the callback error", func() {
				err := store.ReadSnapshot(ctx, func(repository.Store) error { return repository.ErrNotFound })
				Expect(err).To(MatchError(repository.ErrNotFound))
			})
		})
	})
}
