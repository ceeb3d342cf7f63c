package session

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"campusmarket/internal/api"
	"campusmarket/internal/auth"
	"campusmarket/internal/cart"
	"campusmarket/internal/catalog"
	"campusmarket/internal/core/models"
	"campusmarket/internal/listing"
	"campusmarket/internal/profile"
	"campusmarket/internal/purchase"
	"campusmarket/pkg/apperror"
	"campusmarket/pkg/logger"
	"campusmarket/pkg/notice"
)

// Session is the Dashboard analog: the single owner of the per-login stores.
// The cart lives here rather than in any one section, so switching sections
// does not drop it; everything dies together when the session ends.
type Session struct {
	Tokens   *auth.TokenStore
	Catalog  *catalog.Catalog
	Cart     *cart.Store
	Listings *listing.Store
	Purchase *purchase.Flow
	Profile  *profile.Store
	Notices  *notice.Center

	auth *api.AuthClient
	log  logger.Logger
}

// Clients bundles the typed API clients a session consumes.
type Clients struct {
	Products *api.ProductsClient
	Uploads  *api.UploadClient
	Auth     *api.AuthClient
	Profile  *api.ProfileClient
}

// NewClients wires the typed clients over one shared base client.
func NewClients(base *api.Client) Clients {
	return Clients{
		Products: api.NewProductsClient(base),
		Uploads:  api.NewUploadClient(base),
		Auth:     api.NewAuthClient(base),
		Profile:  api.NewProfileClient(base),
	}
}

func New(clients Clients, tokens *auth.TokenStore, writer io.Writer) *Session {
	notices := notice.NewCenter(notice.DefaultTTL)
	listings := listing.NewStore(clients.Products, clients.Uploads, notices, writer)

	return &Session{
		Tokens:   tokens,
		Catalog:  catalog.New(clients.Products, writer),
		Cart:     cart.NewStore(),
		Listings: listings,
		Purchase: purchase.NewFlow(clients.Products, listings, notices, writer),
		Profile:  profile.NewStore(clients.Profile, tokens, notices, writer),
		Notices:  notices,
		auth:     clients.Auth,
		log:      logger.NewLogger(writer, "[session]"),
	}
}

// Login exchanges credentials and persists the token bundle, the way the
// login screen dropped the token into localStorage.
func (s *Session) Login(ctx context.Context, email, password string) error {
	creds, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.Tokens.Save(creds); err != nil {
		return err
	}
	s.log.Log("logged in as %s", creds.User.Email)
	return nil
}

// Bootstrap loads the catalog and the profile concurrently. Browsing must
// keep working for a guest, so a missing credential on the profile side is
// not an error here.
func (s *Session) Bootstrap(ctx context.Context) error {
	sellerID, err := s.Tokens.SellerID()
	if err != nil && !apperror.IsAuth(err) {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Catalog.Load(gctx, sellerID)
	})
	g.Go(func() error {
		_, err := s.Profile.Load(gctx)
		if apperror.IsAuth(err) {
			return nil
		}
		return err
	})
	return g.Wait()
}

// BuyFromCart routes a cart entry into the purchase flow. The entry is a
// snapshot, so the flow gets exactly what the cart shows.
func (s *Session) BuyFromCart(index int) bool {
	items := s.Cart.Items()
	if index < 0 || index >= len(items) {
		return false
	}
	entry := items[index]
	s.Purchase.Select(models.Product{
		ID:    entry.ProductID,
		Name:  entry.Name,
		Price: entry.Price,
		Image: entry.ImageURL,
	})
	return true
}
