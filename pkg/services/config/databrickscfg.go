package config

import (
	"fmt"
	"strings"

	dbconfig "github.com/databricks/databricks-sdk-go/config"
	"github.com/de-tools/medcov/pkg/store/warehouse"
	"gopkg.in/ini.v1"
)

// warehouseHTTPPath prefixes a warehouse_id when a profile has no http_path
const warehouseHTTPPath = "/sql/1.0/warehouses/"

// Registry reads connection profiles from a ~/.databrickscfg style file
type Registry interface {
	GetProfiles() []string
	GetConfig(profile string) (*dbconfig.Config, error)
	GetWarehouse(profile string) (warehouse.DatabricksSettings, error)
}

type cfgRegistry struct {
	path string
	cfg  *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return &cfgRegistry{path: path, cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles() []string {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles
}

// GetConfig returns the SDK view of a profile: workspace host, token and warehouse id
func (cr *cfgRegistry) GetConfig(profile string) (*dbconfig.Config, error) {
	section, err := cr.section(profile)
	if err != nil {
		return nil, err
	}

	return &dbconfig.Config{
		Profile:     profile,
		ConfigFile:  cr.path,
		Host:        strings.TrimSuffix(section.Key("host").String(), "/"),
		Token:       section.Key("token").String(),
		WarehouseID: section.Key("warehouse_id").String(),
	}, nil
}

// GetWarehouse adds the SQL connector keys the SDK does not model
func (cr *cfgRegistry) GetWarehouse(profile string) (warehouse.DatabricksSettings, error) {
	sdk, err := cr.GetConfig(profile)
	if err != nil {
		return warehouse.DatabricksSettings{}, err
	}
	section, _ := cr.section(profile)

	httpPath := section.Key("http_path").String()
	if httpPath == "" && sdk.WarehouseID != "" {
		httpPath = warehouseHTTPPath + sdk.WarehouseID
	}

	return warehouse.DatabricksSettings{
		Host:     sdk.Host,
		Token:    sdk.Token,
		HTTPPath: httpPath,
		Catalog:  section.Key("catalog").String(),
		Schema:   section.Key("schema").String(),
	}, nil
}

func (cr *cfgRegistry) section(profile string) (*ini.Section, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("profile %s not found in %s, available: %s",
			profile, cr.path, strings.Join(cr.GetProfiles(), ", "))
	}
	return section, nil
}
