package rbac

// Built-in permission ids referenced by the HTTP layer.
const (
	PermViewUserManagement  = "view_user_management"
	PermAdminUserManagement = "admin_user_management"
)

// DefaultPermissions returns the built-in permission catalog.
func DefaultPermissions() []Permission {
	return []Permission{
		{ID: "view_user_management", Name: "View User Management", Description: "Access user management dashboard", Category: CategoryManagement, Level: LevelRead},
		{ID: "edit_user_management", Name: "Edit User Management", Description: "Create, edit, and manage users", Category: CategoryManagement, Level: LevelWrite},
		{ID: "admin_user_management", Name: "Admin User Management", Description: "Full user administration including role changes", Category: CategoryManagement, Level: LevelAdmin},
		{ID: "view_bookings", Name: "View Bookings", Description: "View booking information", Category: CategoryBooking, Level: LevelRead},
		{ID: "view_assigned_bookings", Name: "View Assigned Bookings", Description: "View bookings assigned to talent", Category: CategoryBooking, Level: LevelRead},
		{ID: "respond_to_bookings", Name: "Respond to Bookings", Description: "Approve, reject, or counter-offer bookings", Category: CategoryBooking, Level: LevelWrite},
		{ID: "create_bookings", Name: "Create Bookings", Description: "Create new bookings", Category: CategoryBooking, Level: LevelWrite},
		{ID: "manage_bookings", Name: "Manage Bookings", Description: "Edit and approve bookings", Category: CategoryBooking, Level: LevelWrite},
		{ID: "admin_bookings", Name: "Admin Bookings", Description: "Full booking administration", Category: CategoryBooking, Level: LevelAdmin},
		{ID: "view_technical_riders", Name: "View Technical Riders", Description: "Access technical rider system", Category: CategoryBooking, Level: LevelRead},
		{ID: "create_technical_riders", Name: "Create Technical Riders", Description: "Create and edit technical riders", Category: CategoryBooking, Level: LevelWrite},
		{ID: "assignment_management", Name: "Assignment Management", Description: "Manage talent assignments", Category: CategoryBooking, Level: LevelWrite},
		{ID: "view_content", Name: "View Content", Description: "View songs, albums, merchandise", Category: CategoryContent, Level: LevelRead},
		{ID: "upload_content", Name: "Upload Content", Description: "Upload songs, albums, media", Category: CategoryContent, Level: LevelWrite},
		{ID: "manage_content", Name: "Manage Content", Description: "Edit and manage all content", Category: CategoryContent, Level: LevelWrite},
		{ID: "admin_content", Name: "Admin Content", Description: "Full content administration", Category: CategoryContent, Level: LevelAdmin},
		{ID: "manage_merchandise", Name: "Manage Merchandise", Description: "Create and manage merchandise", Category: CategoryContent, Level: LevelWrite},
		{ID: "manage_contracts", Name: "Manage Contracts", Description: "Create and manage contracts", Category: CategoryContent, Level: LevelWrite},
		{ID: "manage_splitsheets", Name: "Manage Splitsheets", Description: "Create and manage splitsheets", Category: CategoryContent, Level: LevelWrite},
		{ID: "view_analytics", Name: "View Analytics", Description: "View basic analytics", Category: CategoryAnalytics, Level: LevelRead},
		{ID: "advanced_analytics", Name: "Advanced Analytics", Description: "Access detailed analytics and reports", Category: CategoryAnalytics, Level: LevelWrite},
		{ID: "revenue_analytics", Name: "Revenue Analytics", Description: "View revenue and financial analytics", Category: CategoryAnalytics, Level: LevelWrite},
		{ID: "admin_analytics", Name: "Admin Analytics", Description: "Full analytics administration", Category: CategoryAnalytics, Level: LevelAdmin},
		{ID: "view_marketing", Name: "View Marketing", Description: "View marketing campaigns", Category: CategoryMarketing, Level: LevelRead},
		{ID: "create_campaigns", Name: "Create Campaigns", Description: "Create marketing campaigns", Category: CategoryMarketing, Level: LevelWrite},
		{ID: "manage_newsletters", Name: "Manage Newsletters", Description: "Create and send newsletters", Category: CategoryMarketing, Level: LevelWrite},
		{ID: "manage_press_releases", Name: "Manage Press Releases", Description: "Create and manage press releases", Category: CategoryMarketing, Level: LevelWrite},
		{ID: "opphub_access", Name: "OppHub Access", Description: "Access opportunity marketplace", Category: CategoryMarketing, Level: LevelRead},
		{ID: "opphub_premium", Name: "OppHub Premium", Description: "Premium opportunity features", Category: CategoryMarketing, Level: LevelWrite},
		{ID: "view_system_config", Name: "View System Config", Description: "View system configuration", Category: CategorySystem, Level: LevelRead},
		{ID: "edit_system_config", Name: "Edit System Config", Description: "Modify system settings", Category: CategorySystem, Level: LevelWrite},
		{ID: "admin_system_config", Name: "Admin System Config", Description: "Full system administration", Category: CategorySystem, Level: LevelAdmin},
		{ID: "database_access", Name: "Database Access", Description: "Access database management", Category: CategorySystem, Level: LevelAdmin},
		{ID: "security_audit", Name: "Security Audit", Description: "Access security and audit features", Category: CategorySystem, Level: LevelAdmin},
	}
}

// DefaultRoles returns the roles shipped with the platform.
func DefaultRoles() []Role {
	perms := DefaultPermissions()
	all := make([]string, len(perms))
	for i, p := range perms {
		all[i] = p.ID
	}
	return []Role{
		{
			ID:          "fan",
			Name:        "fan",
			DisplayName: "Fan",
			Description: "General platform user with basic access",
			IsDefault:   true,
			Permissions: []string{
				"view_content",
				"view_bookings",
				"opphub_access",
			},
		},
		{
			ID:          "professional",
			Name:        "professional",
			DisplayName: "Professional",
			Description: "Independent professional user",
			IsDefault:   true,
			Permissions: []string{
				"view_content",
				"view_bookings",
				"view_assigned_bookings",
				"respond_to_bookings",
				"create_bookings",
				"view_technical_riders",
				"view_analytics",
				"opphub_access",
				"view_marketing",
			},
		},
		{
			ID:          "managed_professional",
			Name:        "managed_professional",
			DisplayName: "Managed Professional",
			Description: "Professionally managed service provider",
			IsDefault:   true,
			InheritFrom: "professional",
			Permissions: []string{
				"view_content",
				"view_bookings",
				"view_assigned_bookings",
				"respond_to_bookings",
				"create_bookings",
				"manage_bookings",
				"view_technical_riders",
				"create_technical_riders",
				"view_analytics",
				"advanced_analytics",
				"opphub_access",
				"opphub_premium",
				"view_marketing",
				"create_campaigns",
			},
		},
		{
			ID:          "musician",
			Name:        "musician",
			DisplayName: "Musician",
			Description: "Independent musician",
			IsDefault:   true,
			Permissions: []string{
				"view_content",
				"upload_content",
				"view_bookings",
				"view_assigned_bookings",
				"respond_to_bookings",
				"create_bookings",
				"view_technical_riders",
				"create_technical_riders",
				"view_analytics",
				"manage_merchandise",
				"manage_contracts",
				"manage_splitsheets",
				"opphub_access",
				"view_marketing",
			},
		},
		{
			ID:          "managed_musician",
			Name:        "managed_musician",
			DisplayName: "Managed Musician",
			Description: "Professionally managed musician",
			IsDefault:   true,
			InheritFrom: "musician",
			Permissions: []string{
				"view_content",
				"upload_content",
				"manage_content",
				"view_bookings",
				"view_assigned_bookings",
				"respond_to_bookings",
				"create_bookings",
				"manage_bookings",
				"view_technical_riders",
				"create_technical_riders",
				"assignment_management",
				"view_analytics",
				"advanced_analytics",
				"revenue_analytics",
				"manage_merchandise",
				"manage_contracts",
				"manage_splitsheets",
				"opphub_access",
				"opphub_premium",
				"view_marketing",
				"create_campaigns",
				"manage_newsletters",
				"manage_press_releases",
			},
		},
		{
			ID:          "artist",
			Name:        "artist",
			DisplayName: "Artist",
			Description: "Independent artist",
			IsDefault:   true,
			InheritFrom: "musician",
			Permissions: []string{
				"view_content",
				"upload_content",
				"view_bookings",
				"view_assigned_bookings",
				"respond_to_bookings",
				"create_bookings",
				"view_technical_riders",
				"create_technical_riders",
				"view_analytics",
				"manage_merchandise",
				"manage_contracts",
				"manage_splitsheets",
				"opphub_access",
				"view_marketing",
			},
		},
		{
			ID:          "managed_artist",
			Name:        "managed_artist",
			DisplayName: "Managed Artist",
			Description: "Professionally managed artist",
			IsDefault:   true,
			InheritFrom: "artist",
			Permissions: []string{
				"view_content",
				"upload_content",
				"manage_content",
				"view_bookings",
				"view_assigned_bookings",
				"respond_to_bookings",
				"create_bookings",
				"manage_bookings",
				"view_technical_riders",
				"create_technical_riders",
				"assignment_management",
				"view_analytics",
				"advanced_analytics",
				"revenue_analytics",
				"manage_merchandise",
				"manage_contracts",
				"manage_splitsheets",
				"opphub_access",
				"opphub_premium",
				"view_marketing",
				"create_campaigns",
				"manage_newsletters",
				"manage_press_releases",
			},
		},
		{
			ID:          "admin",
			Name:        "admin",
			DisplayName: "Admin",
			Description: "Platform administrator",
			IsDefault:   true,
			Permissions: []string{
				"view_user_management",
				"edit_user_management",
				"view_content",
				"upload_content",
				"manage_content",
				"admin_content",
				"view_bookings",
				"create_bookings",
				"manage_bookings",
				"admin_bookings",
				"view_technical_riders",
				"create_technical_riders",
				"assignment_management",
				"view_analytics",
				"advanced_analytics",
				"revenue_analytics",
				"admin_analytics",
				"manage_merchandise",
				"manage_contracts",
				"manage_splitsheets",
				"opphub_access",
				"opphub_premium",
				"view_marketing",
				"create_campaigns",
				"manage_newsletters",
				"manage_press_releases",
				"view_system_config",
				"edit_system_config",
			},
		},
		{
			ID:          "assigned_admin",
			Name:        "assigned_admin",
			DisplayName: "Assigned Admin",
			Description: "Admin with specific talent assignments",
			IsDefault:   true,
			InheritFrom: "admin",
			Permissions: []string{
				"view_user_management",
				"edit_user_management",
				"view_content",
				"upload_content",
				"manage_content",
				"view_bookings",
				"create_bookings",
				"manage_bookings",
				"admin_bookings",
				"view_technical_riders",
				"create_technical_riders",
				"assignment_management",
				"view_analytics",
				"advanced_analytics",
				"revenue_analytics",
				"manage_merchandise",
				"manage_contracts",
				"manage_splitsheets",
				"opphub_access",
				"opphub_premium",
				"view_marketing",
				"create_campaigns",
				"manage_newsletters",
				"manage_press_releases",
			},
		},
		{
			ID:          "superadmin",
			Name:        "superadmin",
			DisplayName: "Superadmin",
			Description: "Full system access and control",
			IsDefault:   true,
			Permissions: all,
		},
	}
}

// DefaultCatalog returns a fresh catalog holding DefaultRoles.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultRoles()...)
}

// DefaultSections returns the dashboard section registry.
func DefaultSections() []DashboardSection {
	return []DashboardSection{
		{ID: "talent_bookings", Name: "My Bookings", Icon: "Calendar", Component: "TalentBookingsTab", RequiredPermissions: []string{"view_assigned_bookings"}, Category: CategoryBooking, Order: 1},
		{ID: "user_management", Name: "User Management", Icon: "Users", Component: "UserManagementTab", RequiredPermissions: []string{"view_user_management"}, Category: CategoryManagement, Order: 2},
		{ID: "assignment_management", Name: "Assignment Management", Icon: "UserCheck", Component: "AssignmentManagementTab", RequiredPermissions: []string{"assignment_management"}, Category: CategoryManagement, Order: 2},
		{ID: "booking_management", Name: "Booking Management", Icon: "Calendar", Component: "BookingManagementTab", RequiredPermissions: []string{"view_bookings"}, Category: CategoryBooking, Order: 3},
		{ID: "technical_riders", Name: "Technical Riders", Icon: "Settings", Component: "TechnicalRiderTab", RequiredPermissions: []string{"view_technical_riders"}, Category: CategoryBooking, Order: 4},
		{ID: "content_management", Name: "Content Management", Icon: "Music", Component: "ContentManagementTab", RequiredPermissions: []string{"view_content"}, Category: CategoryContent, Order: 5},
		{ID: "merchandise", Name: "Merchandise", Icon: "ShoppingBag", Component: "MerchandiseTab", RequiredPermissions: []string{"manage_merchandise"}, Category: CategoryContent, Order: 6},
		{ID: "contracts", Name: "Contracts", Icon: "FileText", Component: "ContractsTab", RequiredPermissions: []string{"manage_contracts"}, Category: CategoryContent, Order: 7},
		{ID: "analytics", Name: "Statistics", Icon: "BarChart3", Component: "StatisticsTab", RequiredPermissions: []string{"view_analytics"}, Category: CategoryAnalytics, Order: 8},
		{ID: "marketing", Name: "Marketing & Promotion", Icon: "Megaphone", Component: "MarketingTab", RequiredPermissions: []string{"view_marketing"}, Category: CategoryMarketing, Order: 10},
		{ID: "opphub", Name: "OppHub Scanner", Icon: "Search", Component: "OppHubTab", RequiredPermissions: []string{"opphub_access"}, Category: CategoryMarketing, Order: 11},
		{ID: "platform_configuration", Name: "Platform Configuration", Icon: "Cog", Component: "PlatformConfigTab", RequiredPermissions: []string{"view_system_config"}, Category: CategorySystem, Order: 12},
		{ID: "system_administration", Name: "System Administration", Icon: "Database", Component: "SystemAdminTab", RequiredPermissions: []string{"admin_system_config"}, Category: CategorySystem, Order: 13},
	}
}
